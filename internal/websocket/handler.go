// internal/websocket/handler.go
package websocket

import (
	"context"
	"sort"
	"sync"

	wstypes "wecamp-service/internal/domain/websocket"
)

// MessageHandler answers events an admin dashboard sends over its socket,
// such as a request for fresh notification counts.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// reservedEvents are answered by the client itself and cannot be claimed.
var reservedEvents = map[wstypes.EventType]bool{
	wstypes.EventTypePing: true,
	wstypes.EventTypePong: true,
}

// handlerRoutes maps each client event to the one handler that owns it.
type handlerRoutes struct {
	mu     sync.RWMutex
	routes map[wstypes.EventType]MessageHandler
}

func newHandlerRoutes() *handlerRoutes {
	return &handlerRoutes{routes: make(map[wstypes.EventType]MessageHandler)}
}

// add claims the handler's events. A later handler takes over an event
// from an earlier one; the taken-over and reserved events are returned.
func (r *handlerRoutes) add(handler MessageHandler) (replaced, skipped []wstypes.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range handler.SupportedEvents() {
		if reservedEvents[ev] {
			skipped = append(skipped, ev)
			continue
		}
		if _, taken := r.routes[ev]; taken {
			replaced = append(replaced, ev)
		}
		r.routes[ev] = handler
	}
	return replaced, skipped
}

func (r *handlerRoutes) lookup(ev wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.routes[ev]
	return handler, ok
}

// events lists the routed event types in name order.
func (r *handlerRoutes) events() []wstypes.EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]wstypes.EventType, 0, len(r.routes))
	for ev := range r.routes {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
