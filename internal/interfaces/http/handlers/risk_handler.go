package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medguard-uz/medguard/internal/application/risk"
	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/domain/pricing"
	"github.com/medguard-uz/medguard/pkg/errors"
)

// RiskHandler exposes the scoring facade over HTTP.
type RiskHandler struct {
	service *risk.Service
}

// NewRiskHandler creates the handler.
func NewRiskHandler(service *risk.Service) *RiskHandler {
	return &RiskHandler{service: service}
}

// PriceCheckRequest is the body of POST /prices/check.
type PriceCheckRequest struct {
	DrugName string  `json:"drug_name"`
	Price    float64 `json:"price"`
}

// CheckPrice handles POST /prices/check.
func (h *RiskHandler) CheckPrice(w http.ResponseWriter, r *http.Request) {
	var req PriceCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.DrugName == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeValidation, "drug_name is required"))
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeRiskInvalidPrice, "price must be non-negative"))
		return
	}

	writeJSON(w, http.StatusOK, h.service.ScorePrice(r.Context(), req.DrugName, req.Price))
}

// PriceCompareRequest is the body of POST /prices/compare.
type PriceCompareRequest struct {
	DrugName string          `json:"drug_name"`
	Offers   []pricing.Offer `json:"offers"`
}

// ComparePrices handles POST /prices/compare.
func (h *RiskHandler) ComparePrices(w http.ResponseWriter, r *http.Request) {
	var req PriceCompareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.DrugName == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeValidation, "drug_name is required"))
		return
	}
	for _, o := range req.Offers {
		if o.Price < 0 {
			writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeRiskInvalidPrice, "offer prices must be non-negative"))
			return
		}
	}

	writeJSON(w, http.StatusOK, h.service.ScoreBulk(r.Context(), req.DrugName, req.Offers))
}

// BatchRisk handles GET /batches/{batchNumber}/risk.
func (h *RiskHandler) BatchRisk(w http.ResponseWriter, r *http.Request) {
	batchNumber := chi.URLParam(r, "batchNumber")
	if batchNumber == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeValidation, "batch number is required"))
		return
	}

	writeJSON(w, http.StatusOK, h.service.ScoreBatch(r.Context(), batchNumber))
}

// HighRiskBatches handles GET /batches/high-risk.
func (h *RiskHandler) HighRiskBatches(w http.ResponseWriter, r *http.Request) {
	out := h.service.HighRiskBatches(r.Context())
	if out == nil {
		out = []batchrisk.BatchRiskAnalysis{}
	}
	writeJSON(w, http.StatusOK, struct {
		Batches []batchrisk.BatchRiskAnalysis `json:"batches"`
		Count   int                           `json:"count"`
	}{Batches: out, Count: len(out)})
}

// ComplaintRequest is the body of POST /complaints.
type ComplaintRequest struct {
	BatchNumber string `json:"batch_number"`
	DrugID      string `json:"drug_id"`
	Symptom     string `json:"symptom"`
	Severity    string `json:"severity"`
}

// SubmitComplaint handles POST /complaints.
func (h *RiskHandler) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	var req ComplaintRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.BatchNumber == "" || req.Symptom == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeValidation, "batch_number and symptom are required"))
		return
	}

	c, err := h.service.SubmitComplaint(r.Context(), req.BatchNumber, req.DrugID, req.Symptom, req.Severity)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ReloadCatalog handles POST /catalog/reload.  The body is a full catalog
// document; it replaces the installed dataset atomically.
func (h *RiskHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	var cat catalog.Catalog
	if err := decodeJSON(r, &cat); err != nil {
		writeAppError(w, err)
		return
	}

	if err := h.service.ReloadCatalog(r.Context(), &cat); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Version string `json:"version"`
		Drugs   int    `json:"drugs"`
		Batches int    `json:"batches"`
	}{Version: cat.Version, Drugs: len(cat.Drugs), Batches: len(cat.Batches)})
}
