package monitor

import (
	"context"
	"time"

	"github.com/jonwraymond/healthops/observe"
)

// Start launches the monitoring and retention loops. Returns
// ErrAlreadyStarted if the loops are already running.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		return ErrAlreadyStarted
	}

	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go m.run(m.stop, m.done)

	m.config.Logger.Info(context.Background(), "monitor started",
		observe.Field{Key: "monitor_interval", Value: m.config.MonitorInterval.String()},
		observe.Field{Key: "retention_interval", Value: m.config.RetentionInterval.String()},
		observe.Field{Key: "retention_window", Value: m.config.RetentionWindow.String()},
	)
	return nil
}

// Shutdown stops both loops and waits for the in-flight tick to finish,
// bounded by ctx.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		m.config.Logger.Info(ctx, "monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run drives both tickers from one goroutine so Shutdown has a single
// completion signal to wait on.
func (m *Monitor) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	monitorTicker := time.NewTicker(m.config.MonitorInterval)
	defer monitorTicker.Stop()

	retentionTicker := time.NewTicker(m.config.RetentionInterval)
	defer retentionTicker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-monitorTicker.C:
			m.tickMonitor()
		case <-retentionTicker.C:
			m.tickRetention()
		}
	}
}

// tickMonitor runs one detailed pass. Failures and panics are logged and
// never stop the loop.
func (m *Monitor) tickMonitor() {
	ctx := context.Background()

	defer func() {
		if rec := recover(); rec != nil {
			m.config.Logger.Error(ctx, "monitoring pass panicked",
				observe.Field{Key: "panic", Value: rec},
			)
		}
	}()

	snap, err := m.runPass(ctx)
	if err != nil {
		m.config.Logger.Error(ctx, "monitoring pass failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	m.config.Logger.Info(ctx, "monitoring pass complete",
		observe.Field{Key: "status", Value: snap.Status.String()},
		observe.Field{Key: "checks", Value: len(snap.Checks)},
	)
}

// tickRetention sweeps history entries older than the retention window.
func (m *Monitor) tickRetention() {
	ctx := context.Background()

	defer func() {
		if rec := recover(); rec != nil {
			m.config.Logger.Error(ctx, "retention sweep panicked",
				observe.Field{Key: "panic", Value: rec},
			)
		}
	}()

	cutoff := time.Now().Add(-m.config.RetentionWindow)
	removed, err := m.config.History.Cleanup(ctx, cutoff)
	if err != nil {
		m.config.Logger.Error(ctx, "retention sweep failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	m.config.Logger.Info(ctx, "retention sweep complete",
		observe.Field{Key: "removed", Value: removed},
		observe.Field{Key: "cutoff", Value: cutoff.Format(time.RFC3339)},
	)
}
