package catalog

import (
	_ "embed"
	"encoding/json"
	"os"
	"time"

	"github.com/medguard-uz/medguard/pkg/errors"
)

// seedJSON is the embedded curated dataset, used when no catalog file is
// configured.  It mirrors the hand-maintained market catalog the app ships
// with.
//
//go:embed seed.json
var seedJSON []byte

// LoadEmbedded parses the embedded curated seed catalog.
func LoadEmbedded() (*Catalog, error) {
	return parse(seedJSON)
}

// LoadFile reads and parses a JSON catalog file.  An empty path falls back
// to the embedded seed dataset.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return LoadEmbedded()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to read catalog file")
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	cat := &Catalog{}
	if err := json.Unmarshal(raw, cat); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to parse catalog JSON")
	}
	cat.LoadedAt = time.Now().UTC()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Parse exposes raw-bytes parsing for callers that fetch catalog snapshots
// from a cache rather than from disk.
func Parse(raw []byte) (*Catalog, error) { return parse(raw) }
