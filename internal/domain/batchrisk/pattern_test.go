package batchrisk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medguard-uz/medguard/internal/domain/complaint"
)

func report(batch, symptom string, sev complaint.Severity, date time.Time) complaint.BatchComplaint {
	return complaint.BatchComplaint{
		ID:          symptom + date.Format("20060102"),
		BatchNumber: batch,
		DrugID:      "UZ-PARA-500",
		ReportDate:  date,
		Symptom:     symptom,
		Severity:    sev,
	}
}

func TestAnalyzePattern_Empty(t *testing.T) {
	p := AnalyzePattern(nil)

	assert.Empty(t, p.SymptomFrequency)
	assert.Empty(t, p.TemporalPattern)

	// All three severity buckets are present even with no complaints.
	assert.Len(t, p.SeverityDistribution, 3)
	assert.Zero(t, p.SeverityDistribution[complaint.SeverityMild])
	assert.Zero(t, p.SeverityDistribution[complaint.SeverityModerate])
	assert.Zero(t, p.SeverityDistribution[complaint.SeveritySevere])
}

func TestAnalyzePattern_SymptomNormalization(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	p := AnalyzePattern([]complaint.BatchComplaint{
		report("B1", "Headache", complaint.SeverityMild, day),
		report("B1", "headache ", complaint.SeverityMild, day),
		report("B1", "NAUSEA", complaint.SeverityModerate, day),
	})

	assert.Equal(t, map[string]int{"headache": 2, "nausea": 1}, p.SymptomFrequency)
	assert.Equal(t, []string{"headache", "nausea"}, p.UniqueSymptoms())
	assert.Equal(t, 2, p.SeverityDistribution[complaint.SeverityMild])
	assert.Equal(t, 1, p.SeverityDistribution[complaint.SeverityModerate])
}

func TestAnalyzePattern_TemporalBucketsChronological(t *testing.T) {
	// Across a year boundary: Dec 2023 must precede Jan 2024 regardless of
	// month number.
	dec := time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	p := AnalyzePattern([]complaint.BatchComplaint{
		report("B1", "rash", complaint.SeverityMild, jan),
		report("B1", "rash", complaint.SeverityMild, dec),
		report("B1", "rash", complaint.SeverityMild, jan),
		report("B1", "rash", complaint.SeverityMild, mar),
	})

	// February has no complaints, so no gap bucket appears for it.
	assert.Equal(t, []int{1, 2, 1}, p.TemporalPattern)
}
