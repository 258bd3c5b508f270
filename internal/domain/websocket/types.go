// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// State events (server -> client)
	EventTypeSessionChanged EventType = "session:changed"
	EventTypeCartChanged    EventType = "cart:changed"
	EventTypeNavigate       EventType = "navigation:navigate"
	EventTypeNotice         EventType = "notice"

	// Commands (client -> server)
	EventTypeSync            EventType = "state:sync"
	EventTypeCartSetQuantity EventType = "cart:set_quantity"
	EventTypeCartRemove      EventType = "cart:remove"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id"`
}

// ChannelType names a stream a view can subscribe to
type ChannelType string

const (
	ChannelSession    ChannelType = "session"
	ChannelCart       ChannelType = "cart"
	ChannelNavigation ChannelType = "navigation"
	ChannelNotices    ChannelType = "notices"
)

// AllChannels are subscribed on connect
var AllChannels = []ChannelType{ChannelSession, ChannelCart, ChannelNavigation, ChannelNotices}

func (c ChannelType) Valid() bool {
	for _, ch := range AllChannels {
		if ch == c {
			return true
		}
	}
	return false
}

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CartItemCommand addresses a cart line by product; Quantity is ignored by
// cart:remove.
type CartItemCommand struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NavigateData for navigation events
type NavigateData struct {
	To string `json:"to"`
}

func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message type is required")
	}
	return &msg, nil
}
