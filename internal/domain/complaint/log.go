package complaint

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log is the append-only store of adverse-event reports.  Appends are
// serialized behind a mutex; reads return fresh copies so scoring passes
// operate on a consistent snapshot without blocking writers (copy-on-read).
//
// A Log is constructed once at startup and handed to the scoring facade by
// reference.  There is no package-level instance.
type Log struct {
	mu      sync.RWMutex
	entries []BatchComplaint

	// now is the clock used to stamp ReportDate; overridable in tests.
	now func() time.Time
}

// NewLog creates an empty complaint log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// NewLogWithClock creates a complaint log with an injected clock.  Used by
// tests that need deterministic report dates.
func NewLogWithClock(now func() time.Time) *Log {
	return &Log{now: now}
}

// Append creates a new unverified complaint record, assigns its ID and
// ReportDate, stores it, and returns a copy.  This is the only way complaint
// records come into existence.
func (l *Log) Append(batchNumber, drugID, symptom string, severity Severity) BatchComplaint {
	c := BatchComplaint{
		ID:          uuid.NewString(),
		BatchNumber: batchNumber,
		DrugID:      drugID,
		Symptom:     symptom,
		Severity:    severity,
		Verified:    false,
	}

	l.mu.Lock()
	c.ReportDate = l.now()
	l.entries = append(l.entries, c)
	l.mu.Unlock()

	return c
}

// Seed bulk-loads pre-existing complaint records, e.g. restored from the
// durable archive at startup.  Records keep their original IDs and dates.
func (l *Log) Seed(records []BatchComplaint) {
	l.mu.Lock()
	l.entries = append(l.entries, records...)
	l.mu.Unlock()
}

// ForBatch returns a snapshot of every complaint recorded against the given
// batch, in append order.
func (l *Log) ForBatch(batchNumber string) []BatchComplaint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []BatchComplaint
	for _, c := range l.entries {
		if c.BatchNumber == batchNumber {
			out = append(out, c)
		}
	}
	return out
}

// All returns a snapshot of the full log in append order.
func (l *Log) All() []BatchComplaint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]BatchComplaint, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded complaints.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
