// internal/db/health.go
package db

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the outcome of the latest connectivity probe.
type Status struct {
	Connected bool
	Latency   time.Duration
	CheckedAt time.Time
	Err       error
}

// HealthChecker probes the database and remembers the last result.
type HealthChecker struct {
	db      Pinger
	timeout time.Duration

	mu   sync.RWMutex
	last Status
}

func NewHealthChecker(db Pinger, timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthChecker{db: db, timeout: timeout}
}

// Check pings the database now and records the result.
func (h *HealthChecker) Check(ctx context.Context) Status {
	st := Status{CheckedAt: time.Now()}
	if h.db == nil {
		st.Err = errors.New("database not configured")
	} else {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		start := time.Now()
		st.Err = h.db.Ping(ctx)
		st.Latency = time.Since(start)
		cancel()
	}
	st.Connected = st.Err == nil

	h.mu.Lock()
	h.last = st
	h.mu.Unlock()
	return st
}

// Last returns the most recent result without touching the database.
func (h *HealthChecker) Last() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}
