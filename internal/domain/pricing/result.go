// Package pricing implements the price anomaly scorer: statistical detection
// of suspicious medication offers that may indicate counterfeits.  Scoring is
// pure and fail-open: an unknown drug yields a neutral "no data" result,
// never an error.
package pricing

// AnomalyType classifies the direction and magnitude of a price deviation.
type AnomalyType string

const (
	AnomalyNormal         AnomalyType = "normal"
	AnomalySuspiciousLow  AnomalyType = "suspicious_low"
	AnomalySuspiciousHigh AnomalyType = "suspicious_high"
	AnomalyExtremeLow     AnomalyType = "extreme_low"
	AnomalyExtremeHigh    AnomalyType = "extreme_high"
)

// RiskLevel is the consumer-facing severity of a price check.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskCaution RiskLevel = "caution"
	RiskWarning RiskLevel = "warning"
	RiskDanger  RiskLevel = "danger"
)

// ExpectedRange is the market price band the offer was compared against.
type ExpectedRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceAnalysis carries the numeric evidence behind a verdict.
type PriceAnalysis struct {
	InputPrice     float64       `json:"input_price"`
	ExpectedRange  ExpectedRange `json:"expected_range"`
	AveragePrice   float64       `json:"average_price"`
	ZScore         float64       `json:"z_score"`
	PercentileRank float64       `json:"percentile_rank"` // 0–100
}

// PriceAnomalyResult is the immutable outcome of one price check.
type PriceAnomalyResult struct {
	IsAnomaly      bool          `json:"is_anomaly"`
	AnomalyScore   float64       `json:"anomaly_score"` // ∈ [0,1]
	AnomalyType    AnomalyType   `json:"anomaly_type"`
	RiskLevel      RiskLevel     `json:"risk_level"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
	PriceAnalysis  PriceAnalysis `json:"price_analysis"`
}

// Offer is one pharmacy's price for a drug, used by bulk checks.
type Offer struct {
	Pharmacy string  `json:"pharmacy"`
	Price    float64 `json:"price"`
}

// OfferAnalysis pairs an offer with its verdict.
type OfferAnalysis struct {
	Pharmacy string             `json:"pharmacy"`
	Price    float64            `json:"price"`
	Analysis PriceAnomalyResult `json:"analysis"`
}
