package kafka

import (
	"context"
	"time"

	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
)

// eventSource identifies this service in event envelopes.
const eventSource = "medguard-risk-engine"

// EventPublisher maps domain occurrences onto Kafka topics.  It satisfies
// the facade's EventPublisher interface.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher wraps a producer.
func NewEventPublisher(p *Producer) *EventPublisher {
	return &EventPublisher{producer: p}
}

// ComplaintSubmitted publishes a complaint.submitted event keyed by batch,
// so per-batch complaint streams stay ordered.
func (e *EventPublisher) ComplaintSubmitted(ctx context.Context, c complaint.BatchComplaint) error {
	env, err := NewEventEnvelope(TopicComplaintSubmitted, eventSource, ComplaintSubmittedPayload{
		ComplaintID: c.ID,
		BatchNumber: c.BatchNumber,
		DrugID:      c.DrugID,
		Symptom:     c.NormalizedSymptom(),
		Severity:    c.Severity.String(),
		ReportDate:  c.ReportDate,
	})
	if err != nil {
		return err
	}
	return e.producer.Publish(ctx, TopicComplaintSubmitted, c.BatchNumber, env)
}

// HighRiskDetected publishes a batch.high_risk event.
func (e *EventPublisher) HighRiskDetected(ctx context.Context, a batchrisk.BatchRiskAnalysis) error {
	env, err := NewEventEnvelope(TopicBatchHighRisk, eventSource, BatchHighRiskPayload{
		BatchNumber:       a.BatchNumber,
		DrugName:          a.DrugName,
		RiskLevel:         string(a.RiskLevel),
		RiskScore:         a.RiskScore,
		ComplaintCount:    a.ComplaintCount,
		RecallProbability: a.PredictedRecallProbability,
		DetectedAt:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return e.producer.Publish(ctx, TopicBatchHighRisk, a.BatchNumber, env)
}

// CatalogReloaded announces that a new reference dataset version is live.
// Keyed by version so consumers can deduplicate replays.
func (e *EventPublisher) CatalogReloaded(ctx context.Context, version string, drugCount, batchCount int) error {
	env, err := NewEventEnvelope(TopicCatalogReloaded, eventSource, CatalogReloadedPayload{
		Version:    version,
		DrugCount:  drugCount,
		BatchCount: batchCount,
		ReloadedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return e.producer.Publish(ctx, TopicCatalogReloaded, version, env)
}
