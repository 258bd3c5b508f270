// Package apiclient talks to the storefront's remote API: authentication,
// orders and appointments.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	xerrors "storefront-client/internal/pkg/errors"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	loginPath        = "/api/auth/login"
	registerPath     = "/api/auth/register"
	ordersPath       = "/api/orders"
	appointmentsPath = "/api/appointments"
)

type Config struct {
	BaseURL     string
	FallbackURL string
	Timeout     time.Duration
}

// Client wraps a resty client with a process-wide default credential header.
type Client struct {
	http        *resty.Client
	baseURL     string
	fallbackURL string
	credential  atomic.Pointer[string]
	logger      *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		fallbackURL: strings.TrimRight(cfg.FallbackURL, "/"),
		logger:      logger,
	}

	rc := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	rc.OnBeforeRequest(c.attachCredential)
	c.http = rc

	return c
}

// SetCredential replaces the default Authorization header for every
// subsequent call.
func (c *Client) SetCredential(credential string) {
	if credential == "" {
		c.ClearCredential()
		return
	}
	c.credential.Store(&credential)
}

// ClearCredential removes the default Authorization header.
func (c *Client) ClearCredential() {
	c.credential.Store(nil)
}

// Credential returns the credential currently attached, if any.
func (c *Client) Credential() (string, bool) {
	p := c.credential.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (c *Client) attachCredential(_ *resty.Client, r *resty.Request) error {
	if tok, ok := c.Credential(); ok {
		r.SetAuthToken(tok)
	} else {
		r.Header.Del("Authorization")
	}
	return nil
}

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.StatusCode)
}

func (e *APIError) Unwrap() []error {
	errs := []error{xerrors.ErrUpstream}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		errs = append(errs, xerrors.ErrUnauthorized)
	case http.StatusForbidden:
		errs = append(errs, xerrors.ErrForbidden)
	case http.StatusConflict:
		errs = append(errs, xerrors.ErrConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errs = append(errs, xerrors.ErrInvalidInput)
	}
	return errs
}

// UpstreamMessage extracts the API's own message from err, if it carries one.
func UpstreamMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// send issues method on path against the primary base URL, retrying once on
// the fallback base URL when the primary is unreachable or answers 5xx.
func (c *Client) send(ctx context.Context, method, path string, body, result interface{}) error {
	err := c.sendTo(ctx, c.baseURL, method, path, body, result)
	if err == nil || !c.shouldFallback(err) {
		return err
	}

	c.logger.Warn("primary api failed, trying fallback",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("fallback", c.fallbackURL),
		zap.Error(err),
	)
	return c.sendTo(ctx, c.fallbackURL, method, path, body, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.send(ctx, http.MethodPost, path, body, result)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) shouldFallback(err error) bool {
	if c.fallbackURL == "" || c.fallbackURL == c.baseURL {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) sendTo(ctx context.Context, base, method, path string, body, result interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, base+path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", xerrors.ErrUpstream, method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if eb, ok := resp.Error().(*errorBody); ok && eb != nil {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
		}
		return apiErr
	}
	return nil
}
