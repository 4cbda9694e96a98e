// Package catalog holds the curated reference dataset the risk engine scores
// against: per-drug price statistics and production-batch metadata.  The
// dataset is versioned and immutable once loaded; updates replace the whole
// catalog, never mutate it in place.
package catalog

import (
	"fmt"
	"time"

	"github.com/medguard-uz/medguard/pkg/errors"
)

// DrugPriceReference is the statistical price profile of one drug, derived
// from the curated market catalog.
type DrugPriceReference struct {
	DrugID      string `json:"drug_id"`
	GenericName string `json:"generic_name"`

	// Price statistics in UZS.  Invariant: MinPrice ≤ AveragePrice ≤ MaxPrice,
	// StdDeviation ≥ 0.
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	StdDeviation float64 `json:"std_deviation"`

	// PriceHistory is the ordered sequence of observed market prices the
	// statistics were derived from.
	PriceHistory []float64 `json:"price_history"`
}

// BatchInfo identifies one production lot of a drug.
type BatchInfo struct {
	BatchNumber    string    `json:"batch_number"`
	DrugID         string    `json:"drug_id"`
	DrugName       string    `json:"drug_name"`
	Manufacturer   string    `json:"manufacturer"`
	ProductionDate time.Time `json:"production_date"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// Catalog is one immutable version of the reference dataset.
type Catalog struct {
	Version  string               `json:"version"`
	LoadedAt time.Time            `json:"loaded_at"`
	Drugs    []DrugPriceReference `json:"drugs"`
	Batches  []BatchInfo          `json:"batches"`
}

// Validate checks the structural invariants of the dataset.  A catalog that
// fails validation must never be installed into the Store.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Batches))

	for i, d := range c.Drugs {
		if d.DrugID == "" || d.GenericName == "" {
			return errors.Newf(errors.ErrCodeCatalogInvalid,
				"drug %d: drug_id and generic_name are required", i)
		}
		if d.MinPrice < 0 || d.StdDeviation < 0 {
			return errors.Newf(errors.ErrCodeCatalogInvalid,
				"drug %s: negative price statistic", d.DrugID)
		}
		if d.MinPrice > d.AveragePrice || d.AveragePrice > d.MaxPrice {
			return errors.Newf(errors.ErrCodeCatalogInvalid,
				"drug %s: expected min ≤ average ≤ max, got %.2f / %.2f / %.2f",
				d.DrugID, d.MinPrice, d.AveragePrice, d.MaxPrice)
		}
	}

	for i, b := range c.Batches {
		if b.BatchNumber == "" {
			return errors.Newf(errors.ErrCodeCatalogInvalid, "batch %d: batch_number is required", i)
		}
		if _, dup := seen[b.BatchNumber]; dup {
			return errors.Newf(errors.ErrCodeCatalogInvalid,
				"batch %s: duplicate batch_number", b.BatchNumber)
		}
		seen[b.BatchNumber] = struct{}{}
		if !b.ExpirationDate.IsZero() && !b.ProductionDate.IsZero() &&
			b.ExpirationDate.Before(b.ProductionDate) {
			return errors.Newf(errors.ErrCodeCatalogInvalid,
				"batch %s: expires before production date", b.BatchNumber)
		}
	}

	return nil
}

// String implements fmt.Stringer for log-friendly catalog identification.
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog %s (%d drugs, %d batches)", c.Version, len(c.Drugs), len(c.Batches))
}
