package risk

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/domain/pricing"
	"github.com/medguard-uz/medguard/pkg/errors"
)

type fakeArchive struct {
	mu      sync.Mutex
	records []complaint.BatchComplaint
	err     error
}

func (f *fakeArchive) Archive(_ context.Context, c complaint.BatchComplaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, c)
	return nil
}

type fakeEvents struct {
	mu         sync.Mutex
	complaints []complaint.BatchComplaint
	highRisk   []batchrisk.BatchRiskAnalysis
	reloads    []string
}

func (f *fakeEvents) ComplaintSubmitted(_ context.Context, c complaint.BatchComplaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complaints = append(f.complaints, c)
	return nil
}

func (f *fakeEvents) HighRiskDetected(_ context.Context, a batchrisk.BatchRiskAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.highRisk = append(f.highRisk, a)
	return nil
}

func (f *fakeEvents) CatalogReloaded(_ context.Context, version string, _, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads = append(f.reloads, version)
	return nil
}

func newTestService(t *testing.T, opts Options) (*Service, *complaint.Log) {
	t.Helper()

	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	store := catalog.NewStore(cat)

	log := complaint.NewLog()
	rng := pricing.NewRand(42)
	prices := pricing.NewScorer(store, nil, 0, rng)
	batches := batchrisk.NewScorer(store, log, nil, rng)

	return NewService(store, log, prices, batches, opts), log
}

func TestService_ScorePrice(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	res := svc.ScorePrice(context.Background(), "Paracetamol", 3000)
	assert.Equal(t, pricing.RiskDanger, res.RiskLevel)

	res = svc.ScorePrice(context.Background(), "NoSuchDrug", 100)
	assert.Equal(t, pricing.RiskCaution, res.RiskLevel)
	assert.False(t, res.IsAnomaly)
}

func TestService_ScoreBulk(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	got := svc.ScoreBulk(context.Background(), "Paracetamol", []pricing.Offer{
		{Pharmacy: "A", Price: 12100},
		{Pharmacy: "B", Price: 3000},
	})

	require.Len(t, got, 2)
	assert.Equal(t, pricing.RiskSafe, got[0].Analysis.RiskLevel)
	assert.Equal(t, pricing.RiskDanger, got[1].Analysis.RiskLevel)
}

func TestService_SubmitComplaint(t *testing.T) {
	archive := &fakeArchive{}
	events := &fakeEvents{}
	svc, log := newTestService(t, Options{Archive: archive, Events: events})

	c, err := svc.SubmitComplaint(context.Background(), "PAR-2024-001", "UZ-PARA-500", "Headache", "Moderate")
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, complaint.SeverityModerate, c.Severity)
	assert.False(t, c.Verified)
	assert.Equal(t, 1, log.Len())

	require.Len(t, archive.records, 1)
	assert.Equal(t, c.ID, archive.records[0].ID)
	require.Len(t, events.complaints, 1)
	assert.Equal(t, c.ID, events.complaints[0].ID)
}

func TestService_SubmitComplaint_InvalidSeverity(t *testing.T) {
	svc, log := newTestService(t, Options{})

	_, err := svc.SubmitComplaint(context.Background(), "PAR-2024-001", "UZ-PARA-500", "Headache", "catastrophic")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeComplaintInvalidSeverity))
	assert.Zero(t, log.Len())
}

func TestService_SubmitComplaint_ArchiveFailureDoesNotLoseAppend(t *testing.T) {
	archive := &fakeArchive{err: errors.New(errors.ErrCodeDatabaseError, "archive down")}
	svc, log := newTestService(t, Options{Archive: archive})

	c, err := svc.SubmitComplaint(context.Background(), "PAR-2024-001", "UZ-PARA-500", "nausea", "mild")

	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 1, log.Len())
}

func TestService_ScoreBatchReflectsNewComplaintOnce(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	before := svc.ScoreBatch(ctx, "PAR-2024-001")

	_, err := svc.SubmitComplaint(ctx, "PAR-2024-001", "UZ-PARA-500", "dizziness", "severe")
	require.NoError(t, err)

	after := svc.ScoreBatch(ctx, "PAR-2024-001")
	assert.Equal(t, before.ComplaintCount+1, after.ComplaintCount)
	assert.GreaterOrEqual(t, after.RiskScore, before.RiskScore)
}

func TestService_ScoreBatch_UnknownBatch(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	a := svc.ScoreBatch(context.Background(), "NOT_A_BATCH")

	assert.Equal(t, batchrisk.RiskSafe, a.RiskLevel)
	assert.Zero(t, a.RiskScore)
	assert.Contains(t, a.Recommendation, "not found")
}

func TestService_HighRiskBatchesPublishesRecallEvents(t *testing.T) {
	events := &fakeEvents{}
	svc, log := newTestService(t, Options{Events: events})
	ctx := context.Background()

	// Load one batch with enough severe complaints across two months to
	// cross the recall threshold.
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	symptoms := []string{"seizure", "fainting", "vomiting", "chest pain", "swelling"}
	var records []complaint.BatchComplaint
	for i := 0; i < 2; i++ {
		records = append(records, complaint.BatchComplaint{
			ID: symptoms[i], BatchNumber: "PAR-2024-001", DrugID: "UZ-PARA-500",
			ReportDate: may.AddDate(0, 0, i), Symptom: symptoms[i], Severity: complaint.SeveritySevere,
		})
	}
	for i := 0; i < 10; i++ {
		records = append(records, complaint.BatchComplaint{
			ID: symptoms[i%5] + "-jun", BatchNumber: "PAR-2024-001", DrugID: "UZ-PARA-500",
			ReportDate: jun.AddDate(0, 0, i), Symptom: symptoms[i%5], Severity: complaint.SeveritySevere,
		})
	}
	log.Seed(records)

	got := svc.HighRiskBatches(ctx)

	require.NotEmpty(t, got)
	assert.Equal(t, "PAR-2024-001", got[0].BatchNumber)
	assert.Equal(t, batchrisk.RiskRecallRecommended, got[0].RiskLevel)

	require.Len(t, events.highRisk, 1)
	assert.Equal(t, "PAR-2024-001", events.highRisk[0].BatchNumber)
}

func TestService_ReloadCatalog(t *testing.T) {
	events := &fakeEvents{}
	svc, _ := newTestService(t, Options{Events: events})
	ctx := context.Background()

	bad := &catalog.Catalog{Drugs: []catalog.DrugPriceReference{{DrugID: "X"}}}
	err := svc.ReloadCatalog(ctx, bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogInvalid))
	assert.Empty(t, events.reloads)

	good := &catalog.Catalog{
		Version: "v2",
		Drugs: []catalog.DrugPriceReference{{
			DrugID: "UZ-NEW-1", GenericName: "Novomed",
			AveragePrice: 100, MinPrice: 90, MaxPrice: 110, StdDeviation: 5,
		}},
	}
	require.NoError(t, svc.ReloadCatalog(ctx, good))
	assert.Equal(t, []string{"v2"}, events.reloads)

	res := svc.ScorePrice(ctx, "Novomed", 100)
	assert.Equal(t, pricing.RiskSafe, res.RiskLevel)

	// The old catalog's drugs are gone after the swap.
	res = svc.ScorePrice(ctx, "Paracetamol", 12000)
	assert.Equal(t, pricing.RiskCaution, res.RiskLevel)
}
