// Package visits implements the visit counter application.
//
// Connect probes the counter store once at startup and returns a Connection,
// which is either connected (holding the store) or unavailable (holding the
// probe error). The result is permanent for the process lifetime.
//
// Service turns a Connection into the three operations served over HTTP:
//   - RecordVisit increments the counter for the index page
//   - Stats reads the counter without changing it
//   - Health reports UP or DOWN from the startup connection state
//
// Store unavailability is never an error at this level. Each operation
// returns a fallback value instead.
package visits
