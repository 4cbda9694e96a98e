// Package risk is the application facade over the scoring engine: it
// composes the catalog store, complaint log and the two scorers, and layers
// the operational concerns (logging, metrics, durable archiving, event
// publishing) on top of the pure domain computations.
package risk

import (
	"context"
	"time"

	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/domain/pricing"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/prometheus"
)

// ComplaintArchiver persists complaint records durably.  The in-memory log
// remains the source of truth for scoring; the archive exists so the log can
// be rebuilt after a restart.
type ComplaintArchiver interface {
	Archive(ctx context.Context, c complaint.BatchComplaint) error
}

// EventPublisher emits domain events for downstream consumers.
type EventPublisher interface {
	ComplaintSubmitted(ctx context.Context, c complaint.BatchComplaint) error
	HighRiskDetected(ctx context.Context, a batchrisk.BatchRiskAnalysis) error
	CatalogReloaded(ctx context.Context, version string, drugCount, batchCount int) error
}

// Service is the public query surface of the risk engine.  All scoring
// methods are fail-open: they return well-formed results for unknown drugs
// and batches instead of errors.  Only SubmitComplaint can fail, and only on
// invalid input.
type Service struct {
	store   *catalog.Store
	log     *complaint.Log
	prices  *pricing.Scorer
	batches *batchrisk.Scorer

	archive ComplaintArchiver
	events  EventPublisher
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// Options carries the optional collaborators.  Nil fields disable the
// corresponding concern.
type Options struct {
	Archive ComplaintArchiver
	Events  EventPublisher
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics
}

// NewService wires the facade.
func NewService(store *catalog.Store, log *complaint.Log, prices *pricing.Scorer, batches *batchrisk.Scorer, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		store:   store,
		log:     log,
		prices:  prices,
		batches: batches,
		archive: opts.Archive,
		events:  opts.Events,
		logger:  logger.Named("risk"),
		metrics: opts.Metrics,
	}
}

// Catalog returns the currently installed reference dataset.
func (s *Service) Catalog() *catalog.Catalog {
	return s.store.Snapshot()
}

// ScorePrice checks one observed price for a drug.
func (s *Service) ScorePrice(ctx context.Context, drugName string, price float64) pricing.PriceAnomalyResult {
	start := time.Now()
	res := s.prices.ScorePrice(drugName, price)

	if s.metrics != nil {
		s.metrics.PriceChecksTotal.WithLabelValues(string(res.AnomalyType), string(res.RiskLevel)).Inc()
		s.metrics.PriceCheckDuration.WithLabelValues(string(s.prices.StrategyName())).Observe(time.Since(start).Seconds())
		if res.IsAnomaly {
			s.metrics.AnomaliesTotal.WithLabelValues(string(res.AnomalyType)).Inc()
		}
	}

	if res.RiskLevel == pricing.RiskDanger {
		s.logger.Warn("dangerous price flagged",
			logging.String("drug", drugName),
			logging.Float64("price", price),
			logging.Float64("score", res.AnomalyScore))
	}
	return res
}

// ScoreBulk checks a set of pharmacy offers for one drug.
func (s *Service) ScoreBulk(ctx context.Context, drugName string, offers []pricing.Offer) []pricing.OfferAnalysis {
	results := s.prices.ScoreBulk(drugName, offers)

	if s.metrics != nil {
		for _, r := range results {
			s.metrics.PriceChecksTotal.WithLabelValues(string(r.Analysis.AnomalyType), string(r.Analysis.RiskLevel)).Inc()
		}
	}
	return results
}

// ScoreBatch computes the recall-risk verdict for one production batch.
func (s *Service) ScoreBatch(ctx context.Context, batchNumber string) batchrisk.BatchRiskAnalysis {
	start := time.Now()
	a := s.batches.ScoreBatch(batchNumber)

	if s.metrics != nil {
		s.metrics.BatchChecksTotal.WithLabelValues(string(a.RiskLevel)).Inc()
		s.metrics.BatchCheckDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	}

	if a.RiskLevel == batchrisk.RiskRecallRecommended {
		s.logger.Warn("batch at recall-recommended level",
			logging.String("batch", batchNumber),
			logging.Float64("score", a.RiskScore),
			logging.Int("complaints", a.ComplaintCount))
		s.publishHighRisk(ctx, a)
	}
	return a
}

// HighRiskBatches scores the whole fleet and returns batches at
// potential_risk or above, highest score first.
func (s *Service) HighRiskBatches(ctx context.Context) []batchrisk.BatchRiskAnalysis {
	out := s.batches.HighRiskBatches()

	if s.metrics != nil {
		s.metrics.HighRiskBatchGauge.WithLabelValues().Set(float64(len(out)))
	}
	for _, a := range out {
		if a.RiskLevel == batchrisk.RiskRecallRecommended {
			s.publishHighRisk(ctx, a)
		}
	}
	return out
}

// SubmitComplaint appends a new adverse-event report.  This is the only
// mutating operation in the engine.  Archiving and event publishing are
// best-effort: their failure is logged but never loses the in-memory append.
func (s *Service) SubmitComplaint(ctx context.Context, batchNumber, drugID, symptom, severityRaw string) (complaint.BatchComplaint, error) {
	severity, err := complaint.ParseSeverity(severityRaw)
	if err != nil {
		return complaint.BatchComplaint{}, err
	}

	c := s.log.Append(batchNumber, drugID, symptom, severity)

	s.logger.Info("complaint recorded",
		logging.String("id", c.ID),
		logging.String("batch", c.BatchNumber),
		logging.String("severity", c.Severity.String()))

	if s.metrics != nil {
		s.metrics.ComplaintsTotal.WithLabelValues(c.Severity.String()).Inc()
		s.metrics.ComplaintLogDepth.WithLabelValues().Set(float64(s.log.Len()))
	}

	if s.archive != nil {
		if err := s.archive.Archive(ctx, c); err != nil {
			s.logger.Error("complaint archive write failed", logging.String("id", c.ID), logging.Err(err))
			if s.metrics != nil {
				s.metrics.ArchiveWritesTotal.WithLabelValues("error").Inc()
			}
		} else if s.metrics != nil {
			s.metrics.ArchiveWritesTotal.WithLabelValues("ok").Inc()
		}
	}

	if s.events != nil {
		err := s.events.ComplaintSubmitted(ctx, c)
		if err != nil {
			s.logger.Error("complaint event publish failed", logging.String("id", c.ID), logging.Err(err))
		}
		s.recordPublish("complaint.submitted", err)
	}

	return c, nil
}

// ReloadCatalog validates and installs a new reference dataset.  In-flight
// scoring keeps reading the previous version until the swap completes.
func (s *Service) ReloadCatalog(ctx context.Context, cat *catalog.Catalog) error {
	if err := cat.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.CatalogReloadsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	s.store.Reload(cat)
	s.logger.Info("reference catalog installed",
		logging.String("version", cat.Version),
		logging.Int("drugs", len(cat.Drugs)),
		logging.Int("batches", len(cat.Batches)))

	if s.metrics != nil {
		s.metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()
		s.metrics.CatalogDrugCount.WithLabelValues().Set(float64(len(cat.Drugs)))
		s.metrics.CatalogBatchCount.WithLabelValues().Set(float64(len(cat.Batches)))
	}

	if s.events != nil {
		err := s.events.CatalogReloaded(ctx, cat.Version, len(cat.Drugs), len(cat.Batches))
		if err != nil {
			s.logger.Error("catalog reload event publish failed",
				logging.String("version", cat.Version), logging.Err(err))
		}
		s.recordPublish("catalog.reloaded", err)
	}
	return nil
}

func (s *Service) publishHighRisk(ctx context.Context, a batchrisk.BatchRiskAnalysis) {
	if s.events == nil {
		return
	}
	err := s.events.HighRiskDetected(ctx, a)
	if err != nil {
		s.logger.Error("high-risk event publish failed",
			logging.String("batch", a.BatchNumber), logging.Err(err))
	}
	s.recordPublish("batch.high_risk", err)
}

func (s *Service) recordPublish(event string, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.EventPublishTotal.WithLabelValues(event, status).Inc()
}
