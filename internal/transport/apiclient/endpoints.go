package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront-client/internal/domain/appointment"
	"storefront-client/internal/domain/order"
	"storefront-client/internal/domain/session"
	xerrors "storefront-client/internal/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for a credential.
func (c *Client) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResponse, error) {
	var out session.LoginResponse
	if err := c.post(ctx, loginPath, loginBody{Email: req.Email, Password: req.Password}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: login response carries no token", xerrors.ErrUpstream)
	}
	return &out, nil
}

// Register creates an account. It never logs the user in.
func (c *Client) Register(ctx context.Context, req session.RegisterRequest) error {
	return c.post(ctx, registerPath, req, nil)
}

// CreateOrder submits a checkout.
func (c *Client) CreateOrder(ctx context.Context, req *order.OrderRequest) error {
	return c.post(ctx, ordersPath, req, nil)
}

// CreateAppointment books an appointment slot.
func (c *Client) CreateAppointment(ctx context.Context, req appointment.Request) error {
	return c.post(ctx, appointmentsPath, req, nil)
}

type ordersBody struct {
	Orders []order.Order `json:"orders"`
}

type orderBody struct {
	Order *order.Order `json:"order"`
}

type appointmentsBody struct {
	Appointments []appointment.Appointment `json:"appointments"`
}

// MyOrders lists the signed-in user's orders.
func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	var out ordersBody
	if err := c.get(ctx, ordersPath+"/myorders", &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// Order fetches one order by id.
func (c *Client) Order(ctx context.Context, id string) (*order.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", xerrors.ErrInvalidInput)
	}
	var out orderBody
	if err := c.get(ctx, ordersPath+"/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, fmt.Errorf("%w: order response carries no order", xerrors.ErrUpstream)
	}
	return out.Order, nil
}

// MyAppointments lists the signed-in user's bookings.
func (c *Client) MyAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	var out appointmentsBody
	if err := c.get(ctx, appointmentsPath+"/my", &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// Appointments lists every booking. Admin only upstream.
func (c *Client) Appointments(ctx context.Context) ([]appointment.Appointment, error) {
	var out appointmentsBody
	if err := c.get(ctx, appointmentsPath, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// UpdateAppointmentStatus sets the status of one booking.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, status appointment.Status) error {
	if id == "" {
		return fmt.Errorf("%w: appointment id is required", xerrors.ErrInvalidInput)
	}
	path := appointmentsPath + "/" + url.PathEscape(id) + "/status"
	return c.send(ctx, http.MethodPut, path, appointment.StatusUpdate{Status: status}, nil)
}

// DeleteAppointment removes one booking.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: appointment id is required", xerrors.ErrInvalidInput)
	}
	return c.send(ctx, http.MethodDelete, appointmentsPath+"/"+url.PathEscape(id), nil, nil)
}
