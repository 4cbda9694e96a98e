// Package complaint holds the append-only adverse-event log, the only
// mutable state in the risk engine.  Complaint records are owned exclusively
// by the Log; nothing else constructs or mutates them.
package complaint

import (
	"strings"
	"time"

	"github.com/medguard-uz/medguard/pkg/errors"
)

// Severity classifies how serious a reported adverse event is.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// IsValid reports whether the severity is one of the three known buckets.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	default:
		return false
	}
}

// String returns the severity's string form.
func (s Severity) String() string { return string(s) }

// ParseSeverity parses a user-supplied severity string, case-insensitively.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", errors.Newf(errors.ErrCodeComplaintInvalidSeverity,
			"severity %q is invalid; expected mild|moderate|severe", raw)
	}
	return s, nil
}

// BatchComplaint is one adverse-event report tied to a production batch.
// ID and ReportDate are assigned at creation; records are never mutated or
// deleted afterwards.
type BatchComplaint struct {
	ID          string    `json:"id"`
	BatchNumber string    `json:"batch_number"`
	DrugID      string    `json:"drug_id"`
	ReportDate  time.Time `json:"report_date"`
	Symptom     string    `json:"symptom"`
	Severity    Severity  `json:"severity"`
	Verified    bool      `json:"verified"`
}

// NormalizedSymptom returns the symptom text in the canonical form used for
// aggregation: lower-cased with surrounding whitespace removed.
func (c BatchComplaint) NormalizedSymptom() string {
	return strings.ToLower(strings.TrimSpace(c.Symptom))
}
