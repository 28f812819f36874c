package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsResponse represents the counter statistics response
type StatsResponse struct {
	Visits   *string `json:"visits"`
	ClientIP string  `json:"client_ip"`
	Status   string  `json:"status"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// handleIndex counts a visit and renders the index page
func (s *Server) handleIndex(c *gin.Context) {
	count := s.visits.RecordVisit(c.Request.Context())

	c.HTML(http.StatusOK, "index.html", gin.H{
		"count": count,
		"ip":    c.ClientIP(),
	})
}

// handleStats reports the counter without incrementing it.
// Store failures are reported in the body, never in the status code.
func (s *Server) handleStats(c *gin.Context) {
	stats := s.visits.Stats(c.Request.Context())

	c.JSON(http.StatusOK, StatsResponse{
		Visits:   stats.Visits,
		ClientIP: c.ClientIP(),
		Status:   stats.Status,
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: s.visits.Health(),
	})
}
