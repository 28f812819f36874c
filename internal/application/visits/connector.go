package visits

import (
	"context"
	"fmt"

	"github.com/aescanero/visits/internal/ports"
	"go.uber.org/zap"
)

// ConnectionState tags a Connection
type ConnectionState string

const (
	ConnectionStateConnected   ConnectionState = "connected"
	ConnectionStateUnavailable ConnectionState = "unavailable"
)

// Connection is the outcome of connecting to the counter store.
// It is immutable and safe to share between goroutines.
type Connection struct {
	state ConnectionState
	store ports.CounterStore
	err   error
}

// Connected returns a connection holding a live store
func Connected(store ports.CounterStore) Connection {
	return Connection{state: ConnectionStateConnected, store: store}
}

// Unavailable returns a connection recording why the store could not be reached
func Unavailable(err error) Connection {
	return Connection{state: ConnectionStateUnavailable, err: err}
}

// Connect probes the store once and tags the result. There is no retry.
func Connect(ctx context.Context, store ports.CounterStore, logger *zap.Logger) Connection {
	if store == nil {
		return Unavailable(fmt.Errorf("no counter store configured"))
	}

	if err := store.Ping(ctx); err != nil {
		logger.Warn("counter store unavailable, serving without it", zap.Error(err))
		return Unavailable(fmt.Errorf("store liveness probe failed: %w", err))
	}

	logger.Info("connected to counter store")
	return Connected(store)
}

// State returns the connection tag
func (c Connection) State() ConnectionState {
	if c.state == "" {
		return ConnectionStateUnavailable
	}
	return c.state
}

// Store returns the store and true when connected
func (c Connection) Store() (ports.CounterStore, bool) {
	if c.State() != ConnectionStateConnected {
		return nil, false
	}
	return c.store, true
}

// Err returns the startup failure of an unavailable connection
func (c Connection) Err() error {
	return c.err
}
