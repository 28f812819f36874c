package visits

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/visits/internal/ports"
	"github.com/aescanero/visits/pkg/adapters/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubMetrics struct {
	mu          sync.Mutex
	pageViews   int
	storeErrors map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{storeErrors: make(map[string]int)}
}

func (m *stubMetrics) RecordPageView() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageViews++
}

func (m *stubMetrics) RecordStoreError(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErrors[operation]++
}

func (m *stubMetrics) SetStoreUp(bool) {}

type stubPublisher struct {
	mu     sync.Mutex
	events []ports.VisitEvent
}

func (p *stubPublisher) Publish(ctx context.Context, event ports.VisitEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newConnectedService(t *testing.T) (*Service, *memory.InMemoryCounterStore, *stubMetrics, *stubPublisher) {
	t.Helper()

	store := memory.NewInMemoryCounterStore()
	conn := Connect(context.Background(), store, zap.NewNop())
	require.Equal(t, ConnectionStateConnected, conn.State())

	metrics := newStubMetrics()
	events := &stubPublisher{}
	return NewService(conn, metrics, events, zap.NewNop()), store, metrics, events
}

func TestService_RecordVisit(t *testing.T) {
	ctx := context.Background()

	t.Run("increments once per call", func(t *testing.T) {
		svc, _, metrics, _ := newConnectedService(t)

		assert.Equal(t, int64(1), svc.RecordVisit(ctx))
		assert.Equal(t, int64(2), svc.RecordVisit(ctx))
		assert.Equal(t, 2, metrics.pageViews)
	})

	t.Run("publishes visit events", func(t *testing.T) {
		svc, _, _, events := newConnectedService(t)
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		svc.RecordVisit(ctx)

		require.Len(t, events.events, 1)
		assert.Equal(t, int64(1), events.events[0].Visits)
		assert.Equal(t, fixed, events.events[0].Timestamp)
		assert.NotEmpty(t, events.events[0].ID)
	})

	t.Run("unavailable store renders zero", func(t *testing.T) {
		svc := NewService(Unavailable(memory.ErrUnreachable), newStubMetrics(), nil, zap.NewNop())

		assert.Equal(t, int64(0), svc.RecordVisit(ctx))
		assert.Equal(t, int64(0), svc.RecordVisit(ctx))
	})

	t.Run("store failure after startup falls back to zero", func(t *testing.T) {
		svc, store, metrics, events := newConnectedService(t)
		store.SetUnreachable(true)

		assert.Equal(t, int64(0), svc.RecordVisit(ctx))
		assert.Equal(t, 1, metrics.storeErrors["incr"])
		assert.Empty(t, events.events)
	})
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("never incremented counter is nil", func(t *testing.T) {
		svc, _, _, _ := newConnectedService(t)

		stats := svc.Stats(ctx)
		assert.Nil(t, stats.Visits)
		assert.Equal(t, StatusOK, stats.Status)
	})

	t.Run("reports last recorded value without incrementing", func(t *testing.T) {
		svc, _, _, _ := newConnectedService(t)
		svc.RecordVisit(ctx)
		svc.RecordVisit(ctx)

		for i := 0; i < 3; i++ {
			stats := svc.Stats(ctx)
			require.NotNil(t, stats.Visits)
			assert.Equal(t, "2", *stats.Visits)
			assert.Equal(t, StatusOK, stats.Status)
		}
	})

	t.Run("unavailable store", func(t *testing.T) {
		svc := NewService(Unavailable(memory.ErrUnreachable), newStubMetrics(), nil, zap.NewNop())

		stats := svc.Stats(ctx)
		require.NotNil(t, stats.Visits)
		assert.Equal(t, NotConnected, *stats.Visits)
		assert.Equal(t, StatusStoreError, stats.Status)
	})

	t.Run("store failure after startup", func(t *testing.T) {
		svc, store, metrics, _ := newConnectedService(t)
		store.SetUnreachable(true)

		stats := svc.Stats(ctx)
		require.NotNil(t, stats.Visits)
		assert.Equal(t, NotConnected, *stats.Visits)
		assert.Equal(t, StatusStoreError, stats.Status)
		assert.Equal(t, 1, metrics.storeErrors["get"])
	})
}

func TestService_Health(t *testing.T) {
	svc, store, _, _ := newConnectedService(t)
	assert.Equal(t, HealthUp, svc.Health())

	// health follows the startup connection, not later failures
	store.SetUnreachable(true)
	assert.Equal(t, HealthUp, svc.Health())

	down := NewService(Unavailable(memory.ErrUnreachable), newStubMetrics(), nil, zap.NewNop())
	assert.Equal(t, HealthDown, down.Health())
}

func TestService_ConcurrentVisits(t *testing.T) {
	svc, _, _, _ := newConnectedService(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			svc.RecordVisit(ctx)
		}()
	}
	wg.Wait()

	stats := svc.Stats(ctx)
	require.NotNil(t, stats.Visits)
	assert.Equal(t, "50", *stats.Visits)
}
