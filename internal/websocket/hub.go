// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "wecamp-service/internal/domain/websocket"
	"wecamp-service/internal/pkg/jwt"
	"wecamp-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Hub tracks connected admin dashboards and fans messages out to them.
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	broadcast chan *wstypes.WSMessage

	handlers *handlerRoutes

	// Auth dependencies
	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager

	logger *zap.Logger
	done   chan struct{}
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[string]map[*Client]bool),
		Register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *wstypes.WSMessage, 256),
		handlers:       newHandlerRoutes(),
		jwtVerifier:    jwtVerifier,
		sessionManager: sessionManager,
		logger:         logger,
		done:           make(chan struct{}),
	}
}

// AuthenticateClient validates an access token and requires the admin role.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	blacklisted, err := h.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}
	if claims.IssuedAt != nil {
		stale, err := h.sessionManager.IssuedBeforeRevocation(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return nil, err
		}
		if stale {
			return nil, ErrTokenBlacklisted
		}
	}
	if !claims.IsAdmin() {
		return nil, ErrNotAdmin
	}

	return &ClientAuth{
		UserID:    claims.UserID,
		SessionID: claims.ID,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}

// RegisterHandler routes the handler's events to it.
func (h *Hub) RegisterHandler(handler MessageHandler) {
	replaced, skipped := h.handlers.add(handler)
	for _, ev := range replaced {
		h.logger.Warn("websocket event handler replaced", zap.String("event", string(ev)))
	}
	for _, ev := range skipped {
		h.logger.Warn("websocket event is reserved", zap.String("event", string(ev)))
	}
}

// HandledEvents lists the client events routed to registered handlers.
func (h *Hub) HandledEvents() []wstypes.EventType {
	return h.handlers.events()
}

// HandleClientMessage routes a client event to its handler. It reports
// false when no handler owns the event.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlers.lookup(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.sendToAll(msg)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info("websocket client connected",
		zap.String("user_id", client.userID),
		zap.String("session_id", client.sessionID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"user_id":    client.userID,
		"session_id": client.sessionID,
		"role":       client.role,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("user_id", client.userID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) sendToAll(msg *wstypes.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.SendMessage(msg)
		}
	}
}

// BroadcastToAdmins queues msg for every connected dashboard. It never
// blocks; when the queue is full the message is dropped.
func (h *Hub) BroadcastToAdmins(msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message", zap.String("type", string(msg.Type)))
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// IsUserConnected checks if a user has any active connections
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, userID)
	}
}
