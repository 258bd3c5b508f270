// internal/websocket/handler/state.go
package handler

import (
	"context"

	cartdomain "storefront-client/internal/domain/cart"
	sessiondomain "storefront-client/internal/domain/session"
	wstypes "storefront-client/internal/domain/websocket"
	"storefront-client/internal/websocket"

	"go.uber.org/zap"
)

type SessionSource interface {
	Snapshot() sessiondomain.Snapshot
}

type CartCommands interface {
	Snapshot() cartdomain.Snapshot
	SetQuantity(productID string, quantity int)
	RemoveItem(productID string)
}

// StateHandler answers state:sync and applies cart edits sent by a view.
// Cart edits publish through the store, so every view sees the change.
type StateHandler struct {
	session SessionSource
	cart    CartCommands
	logger  *zap.Logger
}

func NewStateHandler(session SessionSource, cart CartCommands, logger *zap.Logger) *StateHandler {
	return &StateHandler{session: session, cart: cart, logger: logger}
}

func (h *StateHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeSync,
		wstypes.EventTypeCartSetQuantity,
		wstypes.EventTypeCartRemove,
	}
}

func (h *StateHandler) HandleMessage(ctx context.Context, client *websocket.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeSync:
		for _, m := range Snapshots(h.session, h.cart) {
			client.SendMessage(m)
		}
		return nil

	case wstypes.EventTypeCartSetQuantity:
		cmd, err := decodeCartCommand(msg.Data)
		if err != nil {
			return err
		}
		h.cart.SetQuantity(cmd.ProductID, cmd.Quantity)

	case wstypes.EventTypeCartRemove:
		cmd, err := decodeCartCommand(msg.Data)
		if err != nil {
			return err
		}
		h.cart.RemoveItem(cmd.ProductID)
	}

	h.logger.Debug("ws cart command applied",
		zap.String("client_id", client.ID()),
		zap.String("type", string(msg.Type)),
	)
	return nil
}

// Snapshots builds the session and cart messages a view needs to render.
func Snapshots(session SessionSource, cart CartCommands) []*wstypes.WSMessage {
	return []*wstypes.WSMessage{
		wstypes.NewMessage(wstypes.EventTypeSessionChanged, session.Snapshot()),
		wstypes.NewMessage(wstypes.EventTypeCartChanged, cart.Snapshot()),
	}
}

func decodeCartCommand(data interface{}) (wstypes.CartItemCommand, error) {
	var cmd wstypes.CartItemCommand
	if err := websocket.DecodeData(data, &cmd); err != nil || cmd.ProductID == "" {
		return cmd, websocket.ErrBadCommand
	}
	return cmd, nil
}
