package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"wecamp-service/internal/db"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct{ status db.Status }

func (s stubChecker) Check(context.Context) db.Status { return s.status }

func TestCheck(t *testing.T) {
	started := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Second)

	tests := []struct {
		name    string
		status  db.Status
		ratio   float64
		healthy bool
	}{
		{"all good", db.Status{Connected: true, Latency: 3 * time.Millisecond}, 0.4, true},
		{"database down", db.Status{Err: errors.New("refused")}, 0.4, false},
		{"memory pressure", db.Status{Connected: true}, 0.95, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHealthService(stubChecker{tt.status}, started)
			svc.now = func() time.Time { return now }
			svc.memory = func() MemoryReport { return MemoryReport{HeapAlloc: 1, HeapSys: 2, UsageRatio: tt.ratio} }

			r := svc.Check(context.Background())
			assert.Equal(t, tt.healthy, r.Healthy())
			assert.Equal(t, int64(90), r.UptimeSeconds)
			assert.Equal(t, tt.status.Connected, r.Database.Connected)
			assert.Equal(t, "fast", r.ResponseTime.Classification)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "fast", Classify(20*time.Millisecond))
	assert.Equal(t, "normal", Classify(100*time.Millisecond))
	assert.Equal(t, "slow", Classify(time.Second))
}

func TestReadMemory(t *testing.T) {
	m := readMemory()
	assert.NotZero(t, m.HeapSys)
	assert.GreaterOrEqual(t, m.UsageRatio, 0.0)
	assert.LessOrEqual(t, m.UsageRatio, 1.0)
}
