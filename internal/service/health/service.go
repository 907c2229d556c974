package health

import (
	"context"
	"runtime"
	"time"

	"wecamp-service/internal/db"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "unhealthy"

	// memoryLimit is the heap usage ratio above which the instance reports unhealthy.
	memoryLimit = 0.9
)

// DatabaseChecker is satisfied by *db.HealthChecker.
type DatabaseChecker interface {
	Check(ctx context.Context) db.Status
}

type DatabaseReport struct {
	Connected bool    `json:"connected"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

type MemoryReport struct {
	HeapAlloc  uint64  `json:"heap_alloc"`
	HeapSys    uint64  `json:"heap_sys"`
	UsageRatio float64 `json:"usage_ratio"`
}

type ResponseTime struct {
	MS             float64 `json:"ms"`
	Classification string  `json:"classification"`
}

type Report struct {
	Status        string         `json:"status"`
	Timestamp     time.Time      `json:"timestamp"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Database      DatabaseReport `json:"database"`
	Memory        MemoryReport   `json:"memory"`
	ResponseTime  ResponseTime   `json:"response_time"`
}

// Healthy reports whether the instance should receive traffic.
func (r Report) Healthy() bool {
	return r.Status == StatusOK
}

type HealthService struct {
	db      DatabaseChecker
	started time.Time
	now     func() time.Time
	memory  func() MemoryReport
}

func NewHealthService(checker DatabaseChecker, started time.Time) *HealthService {
	return &HealthService{
		db:      checker,
		started: started,
		now:     time.Now,
		memory:  readMemory,
	}
}

// Check probes the database and the heap and classifies how long that took.
func (s *HealthService) Check(ctx context.Context) Report {
	begin := s.now()

	st := s.db.Check(ctx)
	dbReport := DatabaseReport{
		Connected: st.Connected,
		LatencyMS: ms(st.Latency),
	}
	if st.Err != nil {
		dbReport.Error = st.Err.Error()
	}

	mem := s.memory()
	elapsed := s.now().Sub(begin)

	report := Report{
		Status:        StatusOK,
		Timestamp:     begin.UTC(),
		UptimeSeconds: int64(begin.Sub(s.started).Seconds()),
		Database:      dbReport,
		Memory:        mem,
		ResponseTime:  ResponseTime{MS: ms(elapsed), Classification: Classify(elapsed)},
	}
	if !st.Connected || mem.UsageRatio > memoryLimit {
		report.Status = StatusDegraded
	}
	return report
}

// Classify buckets a response time: under 100ms is fast, under 500ms normal.
func Classify(d time.Duration) string {
	switch {
	case d < 100*time.Millisecond:
		return "fast"
	case d < 500*time.Millisecond:
		return "normal"
	default:
		return "slow"
	}
}

func readMemory() MemoryReport {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r := MemoryReport{HeapAlloc: m.HeapAlloc, HeapSys: m.HeapSys}
	if m.HeapSys > 0 {
		r.UsageRatio = float64(m.HeapAlloc) / float64(m.HeapSys)
	}
	return r
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
