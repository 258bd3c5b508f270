// internal/service/order/history.go
package order

import (
	"context"
	"fmt"
	"strings"

	"storefront-client/internal/domain/order"
	xerrors "storefront-client/internal/pkg/errors"
	"storefront-client/internal/guard"

	"go.uber.org/zap"
)

type OrderAPI interface {
	MyOrders(ctx context.Context) ([]order.Order, error)
	Order(ctx context.Context, id string) (*order.Order, error)
}

// HistoryService reads back orders placed by the signed-in user.
type HistoryService struct {
	api    OrderAPI
	authz  *guard.Authorizer
	logger *zap.Logger
}

func NewHistoryService(api OrderAPI, authz *guard.Authorizer, logger *zap.Logger) *HistoryService {
	return &HistoryService{api: api, authz: authz, logger: logger}
}

func (s *HistoryService) Mine(ctx context.Context) ([]order.Order, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	orders, err := s.api.MyOrders(ctx)
	if err != nil {
		s.logger.Error("failed to load orders", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to load orders")
	}
	return orders, nil
}

func (s *HistoryService) Get(ctx context.Context, id string) (*order.Order, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", xerrors.ErrInvalidInput)
	}
	o, err := s.api.Order(ctx, id)
	if err != nil {
		s.logger.Error("failed to load order", zap.String("id", id), zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to load order")
	}
	return o, nil
}

func (s *HistoryService) requireSession() error {
	if d := s.authz.Check(guard.PolicyAuthenticated); !d.Allowed() {
		return fmt.Errorf("%w: order history requires a signed-in session (%s)", xerrors.ErrUnauthorized, d.Outcome)
	}
	return nil
}
