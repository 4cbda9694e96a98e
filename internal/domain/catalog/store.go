package catalog

import (
	"strings"
	"sync/atomic"
)

// Store is the read-only lookup surface over the current catalog version.
// The catalog pointer is swapped atomically on Reload, so readers always see
// a complete, consistent dataset and never block.  All lookups operate on the
// snapshot current at call time.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store serving the given catalog.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Snapshot returns the catalog version currently installed.  The returned
// value is shared and must be treated as immutable.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Reload replaces the installed catalog wholesale.  In-flight lookups keep
// reading the version they started with.
func (s *Store) Reload(c *Catalog) {
	s.current.Store(c)
}

// LookupDrug resolves a price reference by name.  Matching is deliberately
// forgiving: case-insensitive substring containment in either direction
// against the generic name, or an exact case-insensitive drug ID match.
// User-typed names like "paracetamol 500" still resolve to "Paracetamol".
// The first catalog entry that matches wins.
func (s *Store) LookupDrug(name string) (DrugPriceReference, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return DrugPriceReference{}, false
	}

	cat := s.Snapshot()
	for _, d := range cat.Drugs {
		if strings.EqualFold(d.DrugID, q) {
			return d, true
		}
		g := strings.ToLower(d.GenericName)
		if strings.Contains(g, q) || strings.Contains(q, g) {
			return d, true
		}
	}
	return DrugPriceReference{}, false
}

// LookupBatch resolves batch metadata by exact batch number.
func (s *Store) LookupBatch(batchNumber string) (BatchInfo, bool) {
	cat := s.Snapshot()
	for _, b := range cat.Batches {
		if b.BatchNumber == batchNumber {
			return b, true
		}
	}
	return BatchInfo{}, false
}

// Batches returns a copy of every known batch, for fleet-wide queries.
func (s *Store) Batches() []BatchInfo {
	cat := s.Snapshot()
	out := make([]BatchInfo, len(cat.Batches))
	copy(out, cat.Batches)
	return out
}
