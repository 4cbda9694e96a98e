package pricing

import (
	"fmt"
	"math"

	"github.com/medguard-uz/medguard/internal/domain/catalog"
)

// DefaultContamination is the expected anomaly proportion; scores above it
// are flagged as anomalies.
const DefaultContamination = 0.1

// Scorer performs price checks against the reference catalog.  It never
// returns an error: a drug with no reference data yields a neutral
// "caution, no data" result.
//
// Scorer is safe for concurrent use; it holds no per-call state and its
// random source is internally synchronized.
type Scorer struct {
	store         *catalog.Store
	strategy      Strategy
	contamination float64
	rng           Rand
}

// NewScorer constructs a Scorer.  A nil strategy selects the isolation
// default; contamination ≤ 0 selects DefaultContamination; a nil rng selects
// a time-seeded source.
func NewScorer(store *catalog.Store, strategy Strategy, contamination float64, rng Rand) *Scorer {
	if strategy == nil {
		strategy = &IsolationStrategy{NumTrees: 100}
	}
	if contamination <= 0 {
		contamination = DefaultContamination
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Scorer{
		store:         store,
		strategy:      strategy,
		contamination: contamination,
		rng:           rng,
	}
}

// StrategyName reports which anomaly algorithm the scorer runs.
func (s *Scorer) StrategyName() StrategyName { return s.strategy.Name() }

// ScorePrice checks one observed price for the named drug.
func (s *Scorer) ScorePrice(drugName string, price float64) PriceAnomalyResult {
	ref, ok := s.store.LookupDrug(drugName)
	if !ok {
		return PriceAnomalyResult{
			IsAnomaly:      false,
			AnomalyScore:   0,
			AnomalyType:    AnomalyNormal,
			RiskLevel:      RiskCaution,
			Message:        "no price reference data available for this medication",
			Recommendation: "Verify the medication and its price with a licensed pharmacist.",
			PriceAnalysis:  PriceAnalysis{InputPrice: price},
		}
	}

	score := s.strategy.Score(ref, price, s.rng)
	z := zScore(ref, price)
	isAnomaly := score > s.contamination

	anomalyType, riskLevel := classify(ref, price, z, isAnomaly)
	message, recommendation := describe(anomalyType, ref, price)

	return PriceAnomalyResult{
		IsAnomaly:      isAnomaly,
		AnomalyScore:   score,
		AnomalyType:    anomalyType,
		RiskLevel:      riskLevel,
		Message:        message,
		Recommendation: recommendation,
		PriceAnalysis: PriceAnalysis{
			InputPrice:     price,
			ExpectedRange:  ExpectedRange{Min: ref.MinPrice, Max: ref.MaxPrice},
			AveragePrice:   ref.AveragePrice,
			ZScore:         z,
			PercentileRank: percentileRank(ref.PriceHistory, price),
		},
	}
}

// ScoreBulk checks a set of pharmacy offers for one drug.  Offers are
// independent; each is scored exactly as ScorePrice would.
func (s *Scorer) ScoreBulk(drugName string, offers []Offer) []OfferAnalysis {
	out := make([]OfferAnalysis, 0, len(offers))
	for _, o := range offers {
		out = append(out, OfferAnalysis{
			Pharmacy: o.Pharmacy,
			Price:    o.Price,
			Analysis: s.ScorePrice(drugName, o.Price),
		})
	}
	return out
}

// classify maps the numeric evidence to an anomaly type and risk level.
// Branches are checked in strict priority order; the first match wins.
func classify(ref catalog.DrugPriceReference, price, z float64, isAnomaly bool) (AnomalyType, RiskLevel) {
	switch {
	case price < 0.5*ref.MinPrice:
		return AnomalyExtremeLow, RiskDanger
	case price < 0.75*ref.MinPrice:
		return AnomalySuspiciousLow, RiskWarning
	case price > 1.5*ref.MaxPrice:
		return AnomalyExtremeHigh, RiskWarning
	case price > 1.2*ref.MaxPrice:
		return AnomalySuspiciousHigh, RiskCaution
	case isAnomaly && math.Abs(z) > 2:
		if z < 0 {
			return AnomalySuspiciousLow, RiskCaution
		}
		return AnomalySuspiciousHigh, RiskCaution
	default:
		return AnomalyNormal, RiskSafe
	}
}

// describe renders the fixed message/recommendation template for a verdict,
// parameterized by the percentage deviation from the market average.
func describe(t AnomalyType, ref catalog.DrugPriceReference, price float64) (message, recommendation string) {
	var pct float64
	if ref.AveragePrice > 0 {
		pct = math.Abs(price-ref.AveragePrice) / ref.AveragePrice * 100
	}

	switch t {
	case AnomalyExtremeLow:
		return fmt.Sprintf("Price is %.0f%% below the market average. Possible counterfeit.", pct),
			"Do not purchase. Verify the pharmacy's license and report this offer."
	case AnomalySuspiciousLow:
		return fmt.Sprintf("Price is %.0f%% below the market average.", pct),
			"Check the packaging, batch number and expiry date carefully before buying."
	case AnomalyExtremeHigh:
		return fmt.Sprintf("Price is %.0f%% above the market average.", pct),
			"Significantly overpriced. Compare offers from other pharmacies."
	case AnomalySuspiciousHigh:
		return fmt.Sprintf("Price is %.0f%% above the market average.", pct),
			"Higher than usual. Nearby pharmacies may offer a better price."
	default:
		return "Price is within the expected market range.",
			"No action needed."
	}
}

// percentileRank is the share of historical observations at or below price,
// expressed on a 0–100 scale.  An absent history yields 0.
func percentileRank(history []float64, price float64) float64 {
	if len(history) == 0 {
		return 0
	}
	atOrBelow := 0
	for _, v := range history {
		if v <= price {
			atOrBelow++
		}
	}
	return float64(atOrBelow) / float64(len(history)) * 100
}
