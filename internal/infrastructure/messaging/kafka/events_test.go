package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
)

type fakeWriter struct {
	messages []segkafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestEventPublisher_ComplaintSubmitted(t *testing.T) {
	w := &fakeWriter{}
	pub := NewEventPublisher(NewProducerWithWriter(w, logging.NewNopLogger()))

	c := complaint.BatchComplaint{
		ID:          "c-1",
		BatchNumber: "PAR-2024-001",
		DrugID:      "UZ-PARA-500",
		ReportDate:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Symptom:     "  Headache ",
		Severity:    complaint.SeverityModerate,
	}

	require.NoError(t, pub.ComplaintSubmitted(context.Background(), c))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicComplaintSubmitted, msg.Topic)
	assert.Equal(t, "PAR-2024-001", string(msg.Key))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, TopicComplaintSubmitted, env.EventType)
	assert.NotEmpty(t, env.EventID)

	var payload ComplaintSubmittedPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "c-1", payload.ComplaintID)
	assert.Equal(t, "headache", payload.Symptom)
	assert.Equal(t, "moderate", payload.Severity)
}

func TestEventPublisher_HighRiskDetected(t *testing.T) {
	w := &fakeWriter{}
	pub := NewEventPublisher(NewProducerWithWriter(w, logging.NewNopLogger()))

	a := batchrisk.BatchRiskAnalysis{
		BatchNumber:                "AMX-2024-011",
		DrugName:                   "Amoxicillin 250mg",
		RiskLevel:                  batchrisk.RiskRecallRecommended,
		RiskScore:                  0.91,
		ComplaintCount:             12,
		PredictedRecallProbability: 0.9,
	}

	require.NoError(t, pub.HighRiskDetected(context.Background(), a))
	require.Len(t, w.messages, 1)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &env))

	var payload BatchHighRiskPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "recall_recommended", payload.RiskLevel)
	assert.Equal(t, 0.91, payload.RiskScore)
	assert.Equal(t, 12, payload.ComplaintCount)
}

func TestEventPublisher_CatalogReloaded(t *testing.T) {
	w := &fakeWriter{}
	pub := NewEventPublisher(NewProducerWithWriter(w, logging.NewNopLogger()))

	require.NoError(t, pub.CatalogReloaded(context.Background(), "v3", 8, 6))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicCatalogReloaded, msg.Topic)
	assert.Equal(t, "v3", string(msg.Key))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))

	var payload CatalogReloadedPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "v3", payload.Version)
	assert.Equal(t, 8, payload.DrugCount)
	assert.Equal(t, 6, payload.BatchCount)
	assert.False(t, payload.ReloadedAt.IsZero())
}

func TestProducer_PublishAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	env, err := NewEventEnvelope("x", "test", map[string]string{})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "x", "k", env)
	assert.ErrorIs(t, err, ErrProducerClosed)
}
