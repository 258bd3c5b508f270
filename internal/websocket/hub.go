// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	cartdomain "storefront-client/internal/domain/cart"
	sessiondomain "storefront-client/internal/domain/session"
	wstypes "storefront-client/internal/domain/websocket"
	"storefront-client/internal/ui"

	"go.uber.org/zap"
)

// Hub fans session, cart, navigation and notice events out to every
// connected view.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	// snapshots sent to a client right after it connects
	initial func() []*wstypes.WSMessage

	done chan struct{}

	logger *zap.Logger
}

type BroadcastMessage struct {
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// SetSnapshotProvider sets the messages every new client receives first.
func (h *Hub) SetSnapshotProvider(fn func() []*wstypes.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.initial = fn
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) error {
	return h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
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
			h.BroadcastMessage(msg)
		}
	}
}

// Join hands a new client to the run loop. It reports false once the hub
// has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands client to the run loop for removal, unless the hub already
// stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	initial := h.initial
	h.mu.Unlock()

	h.logger.Info("view client connected",
		zap.String("client_id", client.id),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"client_id": client.id,
		"channels":  client.Channels(),
	}))
	if initial != nil {
		for _, msg := range initial() {
			client.SendMessage(msg)
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Close()

		h.logger.Info("view client disconnected",
			zap.String("client_id", client.id),
			zap.Int("total", len(h.clients)),
		)
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.IsSubscribed(msg.Channel) {
			client.SendMessage(msg.Message)
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// enqueue hands msg to the run loop without ever blocking the caller; state
// stores must not stall on slow views.
func (h *Hub) enqueue(channel wstypes.ChannelType, msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- &BroadcastMessage{Channel: channel, Message: msg}:
	default:
		h.logger.Warn("broadcast queue full, dropping event", zap.String("type", string(msg.Type)))
	}
}

// Public methods for broadcasting

func (h *Hub) PublishSession(snap sessiondomain.Snapshot) {
	h.enqueue(wstypes.ChannelSession, wstypes.NewMessage(wstypes.EventTypeSessionChanged, snap))
}

func (h *Hub) PublishCart(snap cartdomain.Snapshot) {
	h.enqueue(wstypes.ChannelCart, wstypes.NewMessage(wstypes.EventTypeCartChanged, snap))
}

// Navigate implements ui.Navigator.
func (h *Hub) Navigate(view ui.View) {
	h.enqueue(wstypes.ChannelNavigation, wstypes.NewMessage(wstypes.EventTypeNavigate, wstypes.NavigateData{To: string(view)}))
}

// Notify implements ui.Notifier.
func (h *Hub) Notify(notice ui.Notice) {
	h.enqueue(wstypes.ChannelNotices, wstypes.NewMessage(wstypes.EventTypeNotice, notice))
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]interface{}{
			"reason": "server shutting down",
		}))
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}
