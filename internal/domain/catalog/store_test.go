package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := LoadEmbedded()
	require.NoError(t, err)
	return cat
}

func TestLoadEmbedded(t *testing.T) {
	cat := testCatalog(t)

	assert.Equal(t, "2024.06-curated", cat.Version)
	assert.NotEmpty(t, cat.Drugs)
	assert.NotEmpty(t, cat.Batches)
	assert.False(t, cat.LoadedAt.IsZero())

	for _, d := range cat.Drugs {
		assert.LessOrEqual(t, d.MinPrice, d.AveragePrice, d.DrugID)
		assert.LessOrEqual(t, d.AveragePrice, d.MaxPrice, d.DrugID)
		assert.GreaterOrEqual(t, d.StdDeviation, 0.0, d.DrugID)
		assert.NotEmpty(t, d.PriceHistory, d.DrugID)
	}
}

func TestStore_LookupDrug(t *testing.T) {
	store := NewStore(testCatalog(t))

	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{"exact", "Paracetamol", "UZ-PARA-500", true},
		{"lowercase", "paracetamol", "UZ-PARA-500", true},
		{"substring_of_generic", "paracet", "UZ-PARA-500", true},
		{"generic_inside_query", "paracetamol 500mg tablets", "UZ-PARA-500", true},
		{"drug_id", "uz-amox-500", "UZ-AMOX-500", true},
		{"whitespace", "  Ibuprofen  ", "UZ-IBUP-400", true},
		{"unknown", "NoSuchDrug", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := store.LookupDrug(tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, ref.DrugID)
			}
		})
	}
}

func TestStore_LookupBatch(t *testing.T) {
	store := NewStore(testCatalog(t))

	b, ok := store.LookupBatch("PAR-2024-001")
	require.True(t, ok)
	assert.Equal(t, "UZ-PARA-500", b.DrugID)
	assert.Equal(t, "Uzpharma Tashkent", b.Manufacturer)

	_, ok = store.LookupBatch("NOT_A_BATCH")
	assert.False(t, ok)
}

func TestStore_ReloadSwapsWholesale(t *testing.T) {
	store := NewStore(testCatalog(t))
	old := store.Snapshot()

	replacement := &Catalog{
		Version:  "2024.07-curated",
		LoadedAt: time.Now(),
		Drugs: []DrugPriceReference{{
			DrugID: "UZ-TEST-1", GenericName: "Testomycin",
			AveragePrice: 100, MinPrice: 90, MaxPrice: 110, StdDeviation: 5,
			PriceHistory: []float64{90, 100, 110},
		}},
	}
	require.NoError(t, replacement.Validate())

	store.Reload(replacement)

	_, ok := store.LookupDrug("Paracetamol")
	assert.False(t, ok, "old catalog entries must be gone after reload")
	_, ok = store.LookupDrug("testomycin")
	assert.True(t, ok)

	// The previously-taken snapshot is unaffected.
	assert.Equal(t, "2024.06-curated", old.Version)
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Catalog
		wantErr bool
	}{
		{
			name: "min_above_average",
			cat: Catalog{Drugs: []DrugPriceReference{{
				DrugID: "d", GenericName: "g",
				AveragePrice: 10, MinPrice: 20, MaxPrice: 30,
			}}},
			wantErr: true,
		},
		{
			name: "negative_std",
			cat: Catalog{Drugs: []DrugPriceReference{{
				DrugID: "d", GenericName: "g",
				AveragePrice: 10, MinPrice: 5, MaxPrice: 15, StdDeviation: -1,
			}}},
			wantErr: true,
		},
		{
			name: "duplicate_batch",
			cat: Catalog{Batches: []BatchInfo{
				{BatchNumber: "B1"}, {BatchNumber: "B1"},
			}},
			wantErr: true,
		},
		{
			name: "empty_ok",
			cat:  Catalog{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
