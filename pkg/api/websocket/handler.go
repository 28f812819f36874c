package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/aescanero/visits/internal/ports"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	events ports.EventSubscriber
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(events ports.EventSubscriber, logger *zap.Logger) *Handler {
	return &Handler{
		events: events,
		logger: logger,
	}
}

// HandleVisitStream streams a JSON message for every counted visit
func (h *Handler) HandleVisitStream(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before upgrading so no visit after the handshake is missed
	events, err := h.events.Subscribe(ctx)
	if err != nil {
		h.logger.Error("failed to subscribe to visit events", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visit feed unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established", zap.String("client", c.ClientIP()))

	// Drain client frames so close frames are processed
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}
		}
	}
}
