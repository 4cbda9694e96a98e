package batchrisk

import (
	"sort"

	"github.com/medguard-uz/medguard/internal/domain/complaint"
)

// Pattern is the aggregated view of a batch's complaints that the risk
// composite is computed from.
type Pattern struct {
	// SymptomFrequency counts each normalized symptom string.
	SymptomFrequency map[string]int

	// SeverityDistribution counts complaints per severity bucket.  All
	// three keys are always present, zero-filled.
	SeverityDistribution map[complaint.Severity]int

	// TemporalPattern holds per-month complaint counts in chronological
	// order.  Only months with at least one complaint appear; trend logic
	// downstream only ever inspects the last two entries.
	TemporalPattern []int
}

// AnalyzePattern aggregates a complaint set into its symptom, severity and
// temporal profile.  An empty input yields an empty pattern with the
// severity map still zero-filled.
func AnalyzePattern(complaints []complaint.BatchComplaint) Pattern {
	p := Pattern{
		SymptomFrequency: make(map[string]int),
		SeverityDistribution: map[complaint.Severity]int{
			complaint.SeverityMild:     0,
			complaint.SeverityModerate: 0,
			complaint.SeveritySevere:   0,
		},
	}

	type monthKey struct {
		year  int
		month int
	}
	byMonth := make(map[monthKey]int)

	for _, c := range complaints {
		p.SymptomFrequency[c.NormalizedSymptom()]++
		p.SeverityDistribution[c.Severity]++

		y, m, _ := c.ReportDate.Date()
		byMonth[monthKey{year: y, month: int(m)}]++
	}

	if len(byMonth) > 0 {
		keys := make([]monthKey, 0, len(byMonth))
		for k := range byMonth {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].year != keys[j].year {
				return keys[i].year < keys[j].year
			}
			return keys[i].month < keys[j].month
		})

		p.TemporalPattern = make([]int, 0, len(keys))
		for _, k := range keys {
			p.TemporalPattern = append(p.TemporalPattern, byMonth[k])
		}
	}

	return p
}

// UniqueSymptoms returns the distinct normalized symptoms in sorted order.
func (p Pattern) UniqueSymptoms() []string {
	out := make([]string, 0, len(p.SymptomFrequency))
	for s := range p.SymptomFrequency {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
