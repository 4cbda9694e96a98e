package batchrisk

import (
	"sort"
	"time"

	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/domain/pricing"
)

// severityWeight grades how much each complaint severity contributes to the
// composite score.
var severityWeight = map[complaint.Severity]float64{
	complaint.SeverityMild:     0.1,
	complaint.SeverityModerate: 0.3,
	complaint.SeveritySevere:   0.6,
}

// RecallProbabilityFn maps a risk verdict to a recall-probability estimate
// in [0,1].  The mapping is injected so the jittered-band placeholder below
// can be swapped for a calibrated curve without touching the scorer.
type RecallProbabilityFn func(level RiskLevel, score float64, rng pricing.Rand) float64

// BandedRecallProbability is the default mapping: a uniform draw from a
// fixed band per risk level.  The bands are not calibrated against real
// recall data; they express relative ordering only.
func BandedRecallProbability(level RiskLevel, _ float64, rng pricing.Rand) float64 {
	var lo, hi float64
	switch level {
	case RiskRecallRecommended:
		lo, hi = 0.85, 0.95
	case RiskPotentialRisk:
		lo, hi = 0.5, 0.7
	case RiskMonitoring:
		lo, hi = 0.15, 0.3
	default:
		lo, hi = 0, 0.05
	}
	return lo + rng.Float64()*(hi-lo)
}

// Scorer computes recall-risk verdicts for production batches.  Like the
// price scorer it never returns an error: an unknown batch yields a neutral
// zero-score result.
//
// Every call recomputes from the complaint log's current snapshot; nothing
// is cached.
type Scorer struct {
	store      *catalog.Store
	log        *complaint.Log
	recallProb RecallProbabilityFn
	rng        pricing.Rand
}

// NewScorer constructs a batch risk Scorer.  A nil recallProb selects
// BandedRecallProbability; a nil rng selects a time-seeded source.
func NewScorer(store *catalog.Store, log *complaint.Log, recallProb RecallProbabilityFn, rng pricing.Rand) *Scorer {
	if recallProb == nil {
		recallProb = BandedRecallProbability
	}
	if rng == nil {
		rng = pricing.NewRand(0)
	}
	return &Scorer{
		store:      store,
		log:        log,
		recallProb: recallProb,
		rng:        rng,
	}
}

// ScoreBatch computes the recall-risk verdict for one batch.
func (s *Scorer) ScoreBatch(batchNumber string) BatchRiskAnalysis {
	info, ok := s.store.LookupBatch(batchNumber)
	if !ok {
		return BatchRiskAnalysis{
			BatchNumber:    batchNumber,
			RiskLevel:      RiskSafe,
			RiskScore:      0,
			UniqueSymptoms: []string{},
			Recommendation: "Batch not found in database",
		}
	}

	complaints := s.log.ForBatch(batchNumber)
	pattern := AnalyzePattern(complaints)

	score := compositeScore(pattern, len(complaints))
	level := levelFor(score)

	return BatchRiskAnalysis{
		BatchNumber:                info.BatchNumber,
		DrugName:                   info.DrugName,
		RiskLevel:                  level,
		RiskScore:                  score,
		ComplaintCount:             len(complaints),
		UniqueSymptoms:             pattern.UniqueSymptoms(),
		TrendAnalysis:              analyzeTrend(pattern, complaints),
		Recommendation:             recommendationFor(level),
		PredictedRecallProbability: s.recallProb(level, score, s.rng),
	}
}

// HighRiskBatches scores every known batch and returns those at
// potential_risk or above, ordered by descending risk score.
func (s *Scorer) HighRiskBatches() []BatchRiskAnalysis {
	var out []BatchRiskAnalysis
	for _, b := range s.store.Batches() {
		a := s.ScoreBatch(b.BatchNumber)
		if a.RiskLevel == RiskPotentialRisk || a.RiskLevel == RiskRecallRecommended {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RiskScore > out[j].RiskScore
	})
	return out
}

// compositeScore blends complaint volume, severity, month-over-month trend
// and symptom diversity into one 0–1 value.
func compositeScore(p Pattern, n int) float64 {
	if n == 0 {
		return 0
	}

	countScore := minFloat(float64(n)/10, 1) * 0.3

	var weighted float64
	for sev, cnt := range p.SeverityDistribution {
		weighted += severityWeight[sev] * float64(cnt)
	}
	severityScore := weighted / float64(n) * 0.3

	var trendScore float64
	if k := len(p.TemporalPattern); k >= 2 {
		latest := float64(p.TemporalPattern[k-1])
		previous := float64(p.TemporalPattern[k-2])
		if latest > previous {
			trendScore = 0.2 * (latest / previous)
		}
	}

	diversityScore := minFloat(float64(len(p.SymptomFrequency))/5, 1) * 0.2

	score := countScore + severityScore + trendScore + diversityScore
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// levelFor maps a composite score to a risk level, checked high to low.
func levelFor(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return RiskRecallRecommended
	case score >= 0.5:
		return RiskPotentialRisk
	case score >= 0.25:
		return RiskMonitoring
	default:
		return RiskSafe
	}
}

// recommendationFor returns the fixed guidance text for a risk level.
func recommendationFor(level RiskLevel) string {
	switch level {
	case RiskRecallRecommended:
		return "Immediate recall review recommended. Suspend distribution of this batch and notify the regulator."
	case RiskPotentialRisk:
		return "Elevated complaint pattern detected. Intensify quality review and watch incoming reports closely."
	case RiskMonitoring:
		return "Complaint activity is above baseline. Keep this batch under routine monitoring."
	default:
		return "No significant complaint activity recorded for this batch."
	}
}

// analyzeTrend compares the last two monthly buckets.  It reads the same
// temporal pattern the composite's trend term does, so the two always agree
// on direction.
func analyzeTrend(p Pattern, complaints []complaint.BatchComplaint) TrendAnalysis {
	var t TrendAnalysis

	if k := len(p.TemporalPattern); k >= 2 {
		latest := float64(p.TemporalPattern[k-1])
		previous := float64(p.TemporalPattern[k-2])
		t.IsIncreasing = latest > previous
		if previous > 0 {
			t.ChangeRate = (latest - previous) / previous
		}
	}

	if len(complaints) > 0 {
		first, last := complaints[0].ReportDate, complaints[0].ReportDate
		for _, c := range complaints[1:] {
			if c.ReportDate.Before(first) {
				first = c.ReportDate
			}
			if c.ReportDate.After(last) {
				last = c.ReportDate
			}
		}
		t.DaysMonitored = int(last.Sub(first) / (24 * time.Hour))
	}

	return t
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
