package pricing

import (
	"math"
	"sort"

	"github.com/medguard-uz/medguard/internal/domain/catalog"
)

// eulerGamma is the Euler–Mascheroni constant used in the isolation-forest
// path-length normalization term.
const eulerGamma = 0.5772156649

// jitterFraction bounds the random offset applied to the observed price in
// each isolation trial, as a fraction of the price itself.
const jitterFraction = 0.01

// IsolationStrategy is the default anomaly algorithm: a simulated
// isolation-forest scan over the combined set of the drug's price history,
// its summary statistics, and the observed price, blended with z-score and
// range signals.
//
// For each of NumTrees trials the observed price is jittered by a small
// random offset and placed into the sorted combined set; a pseudo-isolation
// depth is derived from the ratio of its nearest-neighbor gap to the average
// gap, bounded by ceil(log2(n)).  The trial average is normalized by the
// standard isolation correction c(n) = 2·(ln(n−1)+γ) − 2(n−1)/n and mapped
// through 2^(−depth/c(n)).
//
// Final score: 0.4·isolation + 0.3·min(|z|/5, 1) + 0.3·rangeSignal, clipped
// to [0,1].  Because of the injected randomness the score is statistically
// stable across calls, not bit-exact, unless the caller pins the Rand seed.
type IsolationStrategy struct {
	// NumTrees is the number of randomized trials.  Values below 1 fall
	// back to the default of 100.
	NumTrees int
}

// Score implements Strategy.
func (s *IsolationStrategy) Score(ref catalog.DrugPriceReference, price float64, rng Rand) float64 {
	iso := s.isolationScore(ref, price, rng)
	zComp := math.Min(math.Abs(zScore(ref, price))/5, 1)
	rng2 := rangeSignal(ref, price)

	return clamp01(0.4*iso + 0.3*zComp + 0.3*rng2)
}

// Name implements Strategy.
func (s *IsolationStrategy) Name() StrategyName { return StrategyIsolation }

func (s *IsolationStrategy) isolationScore(ref catalog.DrugPriceReference, price float64, rng Rand) float64 {
	trees := s.NumTrees
	if trees < 1 {
		trees = 100
	}

	// Combined reference set: history plus the summary statistics.  The
	// observed price joins per-trial after jittering.
	points := make([]float64, 0, len(ref.PriceHistory)+3)
	points = append(points, ref.PriceHistory...)
	points = append(points, ref.AveragePrice, ref.MinPrice, ref.MaxPrice)
	sort.Float64s(points)

	n := len(points) + 1 // including the observed price
	if n < 4 {
		return 0
	}
	maxDepth := math.Ceil(math.Log2(float64(n)))

	var total float64
	for t := 0; t < trees; t++ {
		jittered := price * (1 + (rng.Float64()*2-1)*jitterFraction)

		idx := sort.SearchFloat64s(points, jittered)

		// Gap to the nearest existing neighbor.
		var nearest float64
		switch {
		case idx == 0:
			nearest = points[0] - jittered
		case idx == len(points):
			nearest = jittered - points[len(points)-1]
		default:
			nearest = math.Min(jittered-points[idx-1], points[idx]-jittered)
		}
		if nearest < 0 {
			nearest = 0
		}

		lo := math.Min(points[0], jittered)
		hi := math.Max(points[len(points)-1], jittered)
		avgGap := (hi - lo) / float64(n-1)

		// Well-separated points isolate in few splits; points buried in a
		// dense neighborhood take close to the full tree height.
		depth := maxDepth
		if avgGap > 0 {
			depth = maxDepth / (1 + nearest/avgGap)
		}
		if depth < 1 {
			depth = 1
		}
		total += depth
	}

	avgDepth := total / float64(trees)
	c := 2*(math.Log(float64(n-1))+eulerGamma) - 2*float64(n-1)/float64(n)
	if c <= 0 {
		return 0
	}
	return clamp01(math.Pow(2, -avgDepth/c))
}
