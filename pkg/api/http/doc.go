// Package http provides the HTTP API implementation.
//
// The HTTP server exposes endpoints for:
//   - The index page, which counts a visit
//   - Counter statistics
//   - Health checks
//   - Prometheus metrics
//   - A live visit feed, when a WebSocket handler is attached
package http
