// Package storage provides visit counter store implementations.
//
// Implementations:
//   - redis: Redis INCR/GET on a single key
//   - memory: In-memory for testing
package storage
