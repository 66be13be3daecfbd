package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/votofacil/votofacil/internal/logging"
)

// Pinger is the reachability probe the monitor runs against the backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor tracks whether the backend is reachable. It starts optimistic
// (online) so the first interaction tries the real backend, and flips state
// only on observed probe results. The onOnline callback fires once per
// offline-to-online transition, which is where queue drains get triggered.
type Monitor struct {
	pinger   Pinger
	logger   logging.Logger
	timeout  time.Duration
	online   atomic.Bool
	onOnline func(ctx context.Context)
}

func NewMonitor(pinger Pinger, timeout time.Duration, onOnline func(ctx context.Context), logger logging.Logger) *Monitor {
	m := &Monitor{pinger: pinger, logger: logger, timeout: timeout, onOnline: onOnline}
	m.online.Store(true)
	return m
}

// Online reports the last observed reachability state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// MarkOffline records a failed backend interaction observed outside the
// probe loop, so the next ballot goes straight to the queue.
func (m *Monitor) MarkOffline(ctx context.Context) {
	if m.online.CompareAndSwap(true, false) {
		m.logger.Warn(ctx, "backend unreachable, switching to offline mode")
	}
}

// Probe runs a single reachability check and applies the transition rules.
// It returns the state observed by this probe.
func (m *Monitor) Probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.pinger.Ping(pctx)
	cancel()

	if err != nil {
		m.MarkOffline(ctx)
		return false
	}

	if m.online.CompareAndSwap(false, true) {
		m.logger.Info(ctx, "backend reachable again, switching to online mode")
		if m.onOnline != nil {
			m.onOnline(ctx)
		}
	}
	return true
}

// Start probes on the given interval until ctx is cancelled. It is meant to
// run on its own goroutine for the lifetime of the application.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
