// Package kafka publishes the risk engine's domain events.  Consumers are
// external: the notification scheduler subscribes to high-risk alerts and
// the analytics pipeline to complaint submissions.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/medguard-uz/medguard/pkg/errors"
)

// Topic constants.
const (
	TopicComplaintSubmitted = "complaint.submitted"
	TopicBatchHighRisk      = "batch.high_risk"
	TopicCatalogReloaded    = "catalog.reloaded"
)

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// ComplaintSubmittedPayload mirrors the complaint record for consumers that
// do not import the domain packages.
type ComplaintSubmittedPayload struct {
	ComplaintID string    `json:"complaint_id"`
	BatchNumber string    `json:"batch_number"`
	DrugID      string    `json:"drug_id"`
	Symptom     string    `json:"symptom"`
	Severity    string    `json:"severity"`
	ReportDate  time.Time `json:"report_date"`
}

// BatchHighRiskPayload carries a recall-level batch verdict.
type BatchHighRiskPayload struct {
	BatchNumber       string    `json:"batch_number"`
	DrugName          string    `json:"drug_name"`
	RiskLevel         string    `json:"risk_level"`
	RiskScore         float64   `json:"risk_score"`
	ComplaintCount    int       `json:"complaint_count"`
	RecallProbability float64   `json:"recall_probability"`
	DetectedAt        time.Time `json:"detected_at"`
}

// CatalogReloadedPayload announces a new reference dataset version.
type CatalogReloadedPayload struct {
	Version    string    `json:"version"`
	DrugCount  int       `json:"drug_count"`
	BatchCount int       `json:"batch_count"`
	ReloadedAt time.Time `json:"reloaded_at"`
}

// NewEventEnvelope wraps a payload in the standard envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope's payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "event payload is empty")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}
