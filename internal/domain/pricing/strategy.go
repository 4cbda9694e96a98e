package pricing

import (
	"math"
	"sort"

	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/pkg/errors"
)

// StrategyName identifies an anomaly-scoring algorithm.
type StrategyName string

const (
	StrategyIsolation StrategyName = "isolation"
	StrategyZScore    StrategyName = "zscore"
	StrategyIQR       StrategyName = "iqr"
)

// Strategy computes the anomaly score in [0,1] for an observed price against
// a drug's reference profile.  The app historically grew three divergent
// scoring approaches at different call sites; they are consolidated here
// behind one interface so call sites state explicitly which algorithm they
// rely on.
type Strategy interface {
	// Score returns the anomaly score ∈ [0,1].  Higher means more anomalous.
	Score(ref catalog.DrugPriceReference, price float64, rng Rand) float64
	// Name returns the strategy's identifier.
	Name() StrategyName
}

// NewStrategy constructs a strategy by name.  numTrees only affects the
// isolation strategy.
func NewStrategy(name string, numTrees int) (Strategy, error) {
	switch StrategyName(name) {
	case StrategyIsolation:
		return &IsolationStrategy{NumTrees: numTrees}, nil
	case StrategyZScore:
		return &ZScoreSigmoidStrategy{}, nil
	case StrategyIQR:
		return &IQRStrategy{}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeRiskUnknownStrategy,
			"unknown anomaly strategy %q", name)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared statistical helpers
// ─────────────────────────────────────────────────────────────────────────────

// zScore returns how many standard deviations price sits from the reference
// average.  Defined as 0 when the deviation is degenerate (std = 0), so a
// single-point history can never divide by zero.
func zScore(ref catalog.DrugPriceReference, price float64) float64 {
	if ref.StdDeviation == 0 {
		return 0
	}
	return (price - ref.AveragePrice) / ref.StdDeviation
}

// rangeSignal is 0 for prices inside [min, max]; outside, it is the
// fractional distance beyond the nearer bound relative to the average,
// capped at 1.
func rangeSignal(ref catalog.DrugPriceReference, price float64) float64 {
	if ref.AveragePrice <= 0 {
		return 0
	}
	var dist float64
	switch {
	case price < ref.MinPrice:
		dist = (ref.MinPrice - price) / ref.AveragePrice
	case price > ref.MaxPrice:
		dist = (price - ref.MaxPrice) / ref.AveragePrice
	default:
		return 0
	}
	return math.Min(dist, 1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// ZScoreSigmoidStrategy
// ─────────────────────────────────────────────────────────────────────────────

// ZScoreSigmoidStrategy maps |z| through a logistic curve centered at 2
// standard deviations.  Cheap and deterministic; used where the randomized
// isolation simulation is overkill.
type ZScoreSigmoidStrategy struct{}

// Score implements Strategy.
func (s *ZScoreSigmoidStrategy) Score(ref catalog.DrugPriceReference, price float64, _ Rand) float64 {
	z := math.Abs(zScore(ref, price))
	return clamp01(1 / (1 + math.Exp(2-z)))
}

// Name implements Strategy.
func (s *ZScoreSigmoidStrategy) Name() StrategyName { return StrategyZScore }

// ─────────────────────────────────────────────────────────────────────────────
// IQRStrategy
// ─────────────────────────────────────────────────────────────────────────────

// IQRStrategy scores by distance beyond Tukey fences (Q1−1.5·IQR,
// Q3+1.5·IQR) computed over the price history, normalized by the IQR.
// Robust against skewed histories; deterministic.
type IQRStrategy struct{}

// Score implements Strategy.
func (s *IQRStrategy) Score(ref catalog.DrugPriceReference, price float64, _ Rand) float64 {
	if len(ref.PriceHistory) < 4 {
		// Not enough observations for quartiles; fall back to the range
		// signal which only needs min/max.
		return rangeSignal(ref, price)
	}

	q1, q3 := quartiles(ref.PriceHistory)
	iqr := q3 - q1
	if iqr <= 0 {
		if price < q1 || price > q3 {
			return 1
		}
		return 0
	}

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var excess float64
	switch {
	case price < lower:
		excess = lower - price
	case price > upper:
		excess = price - upper
	default:
		return 0
	}
	return clamp01(excess / (3 * iqr))
}

// Name implements Strategy.
func (s *IQRStrategy) Name() StrategyName { return StrategyIQR }

// quartiles returns Q1 and Q3 of vals using linear interpolation between
// closest ranks.  vals must contain at least 4 entries.
func quartiles(vals []float64) (q1, q3 float64) {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	return percentileSorted(sorted, 0.25), percentileSorted(sorted, 0.75)
}

// percentileSorted computes percentile p ∈ [0,1] over a pre-sorted slice.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
