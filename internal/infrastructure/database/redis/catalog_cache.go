package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/prometheus"
	"github.com/medguard-uz/medguard/pkg/errors"
)

// ErrSnapshotMissing is returned when no catalog snapshot is cached.
var ErrSnapshotMissing = errors.New(errors.ErrCodeNotFound, "no catalog snapshot in cache")

// CatalogCache publishes and retrieves serialized catalog snapshots.  Only
// whole catalog versions are cached, never per-drug lookups or scoring
// results; verdicts are always recomputed from live state.
type CatalogCache struct {
	client  *Client
	prefix  string
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewCatalogCache creates the snapshot cache.  An empty prefix defaults to
// "medguard"; a zero ttl keeps snapshots for 24 hours.
func NewCatalogCache(client *Client, prefix string, ttl time.Duration, log logging.Logger) *CatalogCache {
	if prefix == "" {
		prefix = "medguard"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CatalogCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.Named("catalog_cache"),
	}
}

// SetMetrics enables hit/miss accounting.  Optional.
func (c *CatalogCache) SetMetrics(m *prometheus.AppMetrics) { c.metrics = m }

func (c *CatalogCache) key() string { return c.prefix + ":catalog:current" }

func (c *CatalogCache) recordFetch(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.CacheHitsTotal.WithLabelValues("catalog").Inc()
	} else {
		c.metrics.CacheMissesTotal.WithLabelValues("catalog").Inc()
	}
}

// Publish stores the catalog as the current shared snapshot.
func (c *CatalogCache) Publish(ctx context.Context, cat *catalog.Catalog) error {
	raw, err := json.Marshal(cat)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode catalog snapshot")
	}

	if err := c.client.Raw().Set(ctx, c.key(), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to publish catalog snapshot")
	}

	c.logger.Info("catalog snapshot published",
		logging.String("version", cat.Version),
		logging.Int("bytes", len(raw)))
	return nil
}

// Fetch retrieves and validates the current shared snapshot.  Returns
// ErrSnapshotMissing when nothing is cached.
func (c *CatalogCache) Fetch(ctx context.Context) (*catalog.Catalog, error) {
	raw, err := c.client.Raw().Get(ctx, c.key()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			c.recordFetch(false)
			return nil, ErrSnapshotMissing
		}
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to fetch catalog snapshot")
	}

	cat, err := catalog.Parse(raw)
	if err != nil {
		return nil, err
	}
	c.recordFetch(true)
	return cat, nil
}
