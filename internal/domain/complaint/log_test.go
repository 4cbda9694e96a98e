package complaint

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"mild", SeverityMild, false},
		{"MODERATE", SeverityModerate, false},
		{" Severe ", SeveritySevere, false},
		{"critical", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestNormalizedSymptom(t *testing.T) {
	c := BatchComplaint{Symptom: "  HeadAche "}
	assert.Equal(t, "headache", c.NormalizedSymptom())
}

func TestLog_Append(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	log := NewLogWithClock(func() time.Time { return fixed })

	c := log.Append("PAR-2024-001", "UZ-PARA-500", "nausea", SeverityMild)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, fixed, c.ReportDate)
	assert.False(t, c.Verified)
	assert.Equal(t, 1, log.Len())

	got := log.ForBatch("PAR-2024-001")
	require.Len(t, got, 1)
	assert.Equal(t, c.ID, got[0].ID)

	assert.Empty(t, log.ForBatch("OTHER-BATCH"))
}

func TestLog_SnapshotIsolation(t *testing.T) {
	log := NewLog()
	log.Append("B1", "D1", "dizziness", SeverityModerate)

	snap := log.All()
	log.Append("B1", "D1", "headache", SeverityMild)

	// The earlier snapshot must not grow.
	assert.Len(t, snap, 1)
	assert.Equal(t, 2, log.Len())
}

func TestLog_ConcurrentAppends(t *testing.T) {
	log := NewLog()

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				log.Append("B1", "D1", "nausea", SeverityMild)
			}
		}()
	}
	wg.Wait()

	// No lost or duplicated entries.
	all := log.All()
	assert.Len(t, all, writers*perWriter)

	ids := make(map[string]struct{}, len(all))
	for _, c := range all {
		ids[c.ID] = struct{}{}
	}
	assert.Len(t, ids, writers*perWriter)
}

func TestLog_Seed(t *testing.T) {
	log := NewLog()
	log.Seed([]BatchComplaint{
		{ID: "a", BatchNumber: "B1", Symptom: "rash", Severity: SeveritySevere},
		{ID: "b", BatchNumber: "B2", Symptom: "fever", Severity: SeverityMild},
	})

	assert.Equal(t, 2, log.Len())
	assert.Len(t, log.ForBatch("B1"), 1)
}
