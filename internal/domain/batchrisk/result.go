// Package batchrisk scores production batches for recall risk from the
// accumulated adverse-event complaint log.
package batchrisk

// RiskLevel is the batch-level verdict tier.
type RiskLevel string

const (
	RiskSafe              RiskLevel = "safe"
	RiskMonitoring        RiskLevel = "monitoring"
	RiskPotentialRisk     RiskLevel = "potential_risk"
	RiskRecallRecommended RiskLevel = "recall_recommended"
)

// TrendAnalysis summarizes the month-over-month complaint trajectory for a
// batch, derived from the last two non-empty monthly buckets.
type TrendAnalysis struct {
	IsIncreasing  bool    `json:"is_increasing"`
	ChangeRate    float64 `json:"change_rate"`
	DaysMonitored int     `json:"days_monitored"`
}

// BatchRiskAnalysis is the immutable verdict for one batch.  It is computed
// fresh from the complaint log on every query; there is no cached derived
// state to invalidate.
type BatchRiskAnalysis struct {
	BatchNumber                string        `json:"batch_number"`
	DrugName                   string        `json:"drug_name"`
	RiskLevel                  RiskLevel     `json:"risk_level"`
	RiskScore                  float64       `json:"risk_score"`
	ComplaintCount             int           `json:"complaint_count"`
	UniqueSymptoms             []string      `json:"unique_symptoms"`
	TrendAnalysis              TrendAnalysis `json:"trend_analysis"`
	Recommendation             string        `json:"recommendation"`
	PredictedRecallProbability float64       `json:"predicted_recall_probability"`
}
