// internal/handlers/websocket/websocket.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/jwt"
	"wecamp-service/internal/pkg/response"
	ws "wecamp-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleConnection authenticates an admin and upgrades to a websocket.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := h.extractToken(c)
	if token == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	auth, err := h.hub.AuthenticateClient(c.Request.Context(), token)
	if err != nil {
		h.logger.Warn("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		switch {
		case errors.Is(err, ws.ErrNotAdmin):
			response.Forbidden(c, "Admin access required")
		case errors.Is(err, ws.ErrTokenBlacklisted):
			response.Unauthorized(c, "Token has been revoked")
		case errors.Is(err, jwt.ErrTokenExpired):
			response.Unauthorized(c, "Token has expired")
		default:
			response.Unauthorized(c, "Invalid token")
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	select {
	case h.hub.Register <- client:
	case <-h.hub.Done():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// extractToken checks the access cookie, then ?token=, then the bearer header.
// Browsers cannot set headers on websocket requests, hence the query fallback.
func (h *WebSocketHandler) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(middleware.AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	return middleware.BearerToken(c)
}

// GetStats returns WebSocket connection statistics (admin only)
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, "websocket stats", gin.H{
		"total_connections": h.hub.TotalClients(),
		"handled_events":    h.hub.HandledEvents(),
		"timestamp":         time.Now().UTC(),
	})
}
