// internal/websocket/handler.go
package websocket

import (
	"context"
	"fmt"
	"sync"

	wstypes "storefront-client/internal/domain/websocket"
)

// MessageHandler interface that each module must implement
type MessageHandler interface {
	// HandleMessage processes messages for this handler's domain
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error

	// SupportedEvents returns the list of event types this handler supports
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry manages all message handlers
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

// Register claims every event the handler supports. An event already
// claimed by another handler is refused and nothing is registered.
func (r *HandlerRegistry) Register(handler MessageHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := handler.SupportedEvents()
	for _, eventType := range events {
		if builtin[eventType] {
			return fmt.Errorf("event %q is handled by the client itself", eventType)
		}
		if _, taken := r.handlers[eventType]; taken {
			return fmt.Errorf("event %q already has a handler", eventType)
		}
	}
	for _, eventType := range events {
		r.handlers[eventType] = handler
	}
	return nil
}

var builtin = map[wstypes.EventType]bool{
	wstypes.EventTypePing:        true,
	wstypes.EventTypeSubscribe:   true,
	wstypes.EventTypeUnsubscribe: true,
}

// GetHandler returns the handler for a given event type
func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[eventType]
	return handler, exists
}
