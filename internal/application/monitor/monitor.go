// Package monitor periodically probes a connected counter store.
//
// The monitor only observes. It records the probe result in metrics and
// logs up/down transitions, but never reconnects or changes how requests
// are served.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/aescanero/visits/internal/ports"
	"go.uber.org/zap"
)

// StoreMonitor probes the counter store on a fixed interval
type StoreMonitor struct {
	store    ports.CounterStore
	metrics  ports.MetricsRecorder
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu        sync.RWMutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	lastProbe Status
}

// Status represents the result of the last probe
type Status struct {
	Up        bool
	Error     string
	Timestamp time.Time
}

// NewStoreMonitor creates a new store monitor
func NewStoreMonitor(store ports.CounterStore, metrics ports.MetricsRecorder, interval time.Duration, logger *zap.Logger) *StoreMonitor {
	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}

	return &StoreMonitor{
		store:     store,
		metrics:   metrics,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
		lastProbe: Status{Up: true, Timestamp: time.Now()},
	}
}

// Start starts the monitor
func (m *StoreMonitor) Start() {
	m.mu.Lock()
	if m.running || m.interval <= 0 {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	m.metrics.SetStoreUp(true)
	go m.run()
}

// Stop stops the monitor and waits for the probe loop to exit
func (m *StoreMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main probe loop
func (m *StoreMonitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Probe()
		}
	}
}

// Probe pings the store once and records the result
func (m *StoreMonitor) Probe() Status {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	status := Status{Up: true, Timestamp: time.Now()}
	if err := m.store.Ping(ctx); err != nil {
		status.Up = false
		status.Error = err.Error()
	}

	m.mu.Lock()
	previous := m.lastProbe
	m.lastProbe = status
	m.mu.Unlock()

	m.metrics.SetStoreUp(status.Up)

	switch {
	case previous.Up && !status.Up:
		m.logger.Warn("counter store stopped answering", zap.String("error", status.Error))
		m.metrics.RecordStoreError("ping")
	case !previous.Up && status.Up:
		m.logger.Info("counter store answering again")
	case !status.Up:
		m.metrics.RecordStoreError("ping")
	default:
		m.logger.Debug("counter store probe ok")
	}

	return status
}

// GetStatus returns the result of the last probe
func (m *StoreMonitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastProbe
}
