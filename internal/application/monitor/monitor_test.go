package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/aescanero/visits/pkg/adapters/storage/memory"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingMetrics struct {
	mu          sync.Mutex
	up          []bool
	storeErrors map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{storeErrors: make(map[string]int)}
}

func (r *recordingMetrics) RecordPageView() {}

func (r *recordingMetrics) RecordStoreError(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErrors[operation]++
}

func (r *recordingMetrics) SetStoreUp(up bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.up = append(r.up, up)
}

func (r *recordingMetrics) lastUp() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.up) == 0 {
		return false, false
	}
	return r.up[len(r.up)-1], true
}

func TestStoreMonitor_Probe(t *testing.T) {
	store := memory.NewInMemoryCounterStore()
	metrics := newRecordingMetrics()
	m := NewStoreMonitor(store, metrics, time.Minute, zap.NewNop())

	status := m.Probe()
	assert.True(t, status.Up)
	assert.Empty(t, status.Error)

	store.SetUnreachable(true)
	status = m.Probe()
	assert.False(t, status.Up)
	assert.Contains(t, status.Error, "unreachable")
	assert.Equal(t, status, m.GetStatus())

	m.Probe()
	assert.Equal(t, 2, metrics.storeErrors["ping"])

	store.SetUnreachable(false)
	assert.True(t, m.Probe().Up)

	up, ok := metrics.lastUp()
	assert.True(t, ok)
	assert.True(t, up)
}

func TestStoreMonitor_StartStop(t *testing.T) {
	store := memory.NewInMemoryCounterStore()
	metrics := newRecordingMetrics()
	m := NewStoreMonitor(store, metrics, 10*time.Millisecond, zap.NewNop())

	m.Start()
	m.Start()
	defer m.Stop()

	store.SetUnreachable(true)
	assert.Eventually(t, func() bool {
		up, ok := metrics.lastUp()
		return ok && !up
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()
}

func TestStoreMonitor_DisabledWithZeroInterval(t *testing.T) {
	metrics := newRecordingMetrics()
	m := NewStoreMonitor(memory.NewInMemoryCounterStore(), metrics, 0, zap.NewNop())

	m.Start()
	m.Stop()

	_, ok := metrics.lastUp()
	assert.False(t, ok)
}
