// Package events provides visit event bus implementations.
//
// Implementations:
//   - memory: In-process fan-out to live subscribers
package events
