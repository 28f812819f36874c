package visits

import (
	"context"
	"time"

	"github.com/aescanero/visits/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// StatusOK is reported by Stats when the store answered
	StatusOK = "OK"

	// StatusStoreError is reported by Stats when the store did not answer
	StatusStoreError = "Redis error"

	// NotConnected replaces the counter value when the store did not answer
	NotConnected = "Redis not connected"

	HealthUp   = "UP"
	HealthDown = "DOWN"
)

// Stats is a read-only view of the counter
type Stats struct {
	// Visits is the counter as returned by the store, nil if it was never
	// incremented, or NotConnected.
	Visits *string
	Status string
}

// Service serves visit counter operations over a Connection
type Service struct {
	conn    Connection
	metrics ports.MetricsRecorder
	events  ports.EventPublisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new visit service. events may be nil.
func NewService(conn Connection, metrics ports.MetricsRecorder, events ports.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		conn:    conn,
		metrics: metrics,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Connection returns the startup connection
func (s *Service) Connection() Connection {
	return s.conn
}

// RecordVisit increments the counter and returns the new value.
// It returns 0 without touching any state when the store is unavailable.
func (s *Service) RecordVisit(ctx context.Context) int64 {
	store, ok := s.conn.Store()
	if !ok {
		return 0
	}

	visits, err := store.Increment(ctx)
	if err != nil {
		s.logger.Error("failed to increment visit counter", zap.Error(err))
		s.metrics.RecordStoreError("incr")
		return 0
	}

	s.metrics.RecordPageView()
	s.publish(ctx, visits)

	return visits
}

// Stats reads the counter without incrementing it
func (s *Service) Stats(ctx context.Context) Stats {
	store, ok := s.conn.Store()
	if !ok {
		return notConnectedStats()
	}

	value, found, err := store.Current(ctx)
	if err != nil {
		s.logger.Error("failed to read visit counter", zap.Error(err))
		s.metrics.RecordStoreError("get")
		return notConnectedStats()
	}

	stats := Stats{Status: StatusOK}
	if found {
		stats.Visits = &value
	}
	return stats
}

// Health reports the startup connection state
func (s *Service) Health() string {
	if _, ok := s.conn.Store(); ok {
		return HealthUp
	}
	return HealthDown
}

// publish notifies live subscribers of a new counter value
func (s *Service) publish(ctx context.Context, visits int64) {
	if s.events == nil {
		return
	}

	event := ports.VisitEvent{
		ID:        uuid.New().String(),
		Visits:    visits,
		Timestamp: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish visit event",
			zap.String("event_id", event.ID),
			zap.Int64("visits", visits),
			zap.Error(err))
	}
}

func notConnectedStats() Stats {
	fallback := NotConnected
	return Stats{Visits: &fallback, Status: StatusStoreError}
}
