package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-uz/medguard/internal/application/risk"
	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/domain/pricing"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
	"github.com/medguard-uz/medguard/internal/interfaces/http/handlers"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	store := catalog.NewStore(cat)

	log := complaint.NewLog()
	rng := pricing.NewRand(7)
	svc := risk.NewService(store, log,
		pricing.NewScorer(store, nil, 0, rng),
		batchrisk.NewScorer(store, log, nil, rng),
		risk.Options{})

	return NewRouter(RouterConfig{
		RiskHandler:   handlers.NewRiskHandler(svc),
		HealthHandler: handlers.NewHealthHandler("test"),
		Logger:        logging.NewNopLogger(),
	})
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive"`)
}

func TestRouter_CheckPrice(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/prices/check", map[string]interface{}{
		"drug_name": "Paracetamol",
		"price":     3000,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res pricing.PriceAnomalyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, pricing.AnomalyExtremeLow, res.AnomalyType)
	assert.Equal(t, pricing.RiskDanger, res.RiskLevel)
}

func TestRouter_CheckPrice_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/prices/check", map[string]interface{}{
		"price": 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/api/v1/prices/check", map[string]interface{}{
		"drug_name": "Paracetamol",
		"price":     -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ComparePrices(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/prices/compare", map[string]interface{}{
		"drug_name": "Paracetamol",
		"offers": []map[string]interface{}{
			{"pharmacy": "A", "price": 12100},
			{"pharmacy": "B", "price": 3000},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res []pricing.OfferAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 2)
	assert.Equal(t, pricing.RiskSafe, res[0].Analysis.RiskLevel)
	assert.Equal(t, pricing.RiskDanger, res[1].Analysis.RiskLevel)
}

func TestRouter_BatchRisk(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/PAR-2024-001/risk", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res batchrisk.BatchRiskAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "PAR-2024-001", res.BatchNumber)
	assert.Equal(t, batchrisk.RiskSafe, res.RiskLevel)
}

func TestRouter_BatchRisk_UnknownIsStillOK(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/NOT_A_BATCH/risk", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Fail-open contract: unknown batches yield a neutral verdict, not 404.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestRouter_SubmitComplaintAndScore(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/complaints", map[string]interface{}{
		"batch_number": "PAR-2024-001",
		"drug_id":      "UZ-PARA-500",
		"symptom":      "headache",
		"severity":     "moderate",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var c complaint.BatchComplaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.NotEmpty(t, c.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/PAR-2024-001/risk", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	var a batchrisk.BatchRiskAnalysis
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &a))
	assert.Equal(t, 1, a.ComplaintCount)
}

func TestRouter_SubmitComplaint_InvalidSeverity(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/complaints", map[string]interface{}{
		"batch_number": "PAR-2024-001",
		"symptom":      "headache",
		"severity":     "fatal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CMP_001")
}

func TestRouter_HighRiskBatchesEmpty(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/high-risk", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"batches": [], "count": 0}`, rec.Body.String())
}

func TestRouter_ReloadCatalog(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/catalog/reload", map[string]interface{}{
		"version": "v-test",
		"drugs": []map[string]interface{}{{
			"drug_id":       "UZ-T-1",
			"generic_name":  "Testomed",
			"average_price": 100,
			"min_price":     90,
			"max_price":     110,
			"std_deviation": 5,
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "v-test")

	// Invalid catalog is rejected.
	rec = postJSON(t, router, "/api/v1/catalog/reload", map[string]interface{}{
		"version": "bad",
		"drugs": []map[string]interface{}{{
			"drug_id":       "UZ-T-2",
			"generic_name":  "Badomed",
			"average_price": 100,
			"min_price":     200,
			"max_price":     110,
		}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
