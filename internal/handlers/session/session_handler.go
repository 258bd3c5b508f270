// internal/handlers/session/session_handler.go
package session

import (
	"context"
	"net/http"

	domain "storefront-client/internal/domain/session"
	"storefront-client/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionService is the slice of the session store the HTTP surface drives.
type SessionService interface {
	Snapshot() domain.Snapshot
	Login(ctx context.Context, req domain.LoginRequest) domain.Result
	Logout(ctx context.Context) domain.Result
	Register(ctx context.Context, req domain.RegisterRequest) domain.Result
}

type SessionHandler struct {
	session SessionService
	logger  *zap.Logger
}

func NewSessionHandler(session SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{session: session, logger: logger}
}

// GetSession returns the current snapshot. It never blocks on initialization.
func (h *SessionHandler) GetSession(c *gin.Context) {
	response.Success(c, http.StatusOK, "session", h.session.Snapshot())
}

// ========== Login ==========

func (h *SessionHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	res := h.session.Login(c.Request.Context(), req)
	if !res.Success {
		response.FromError(c, noticeMessage(res, "login failed"), res.Err, res)
		return
	}

	response.Success(c, http.StatusOK, "login successful", res)
}

// ========== Logout ==========

func (h *SessionHandler) Logout(c *gin.Context) {
	res := h.session.Logout(c.Request.Context())
	response.Success(c, http.StatusOK, "logout successful", res)
}

// ========== Registration ==========

func (h *SessionHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	res := h.session.Register(c.Request.Context(), req)
	if !res.Success {
		response.FromError(c, noticeMessage(res, "registration failed"), res.Err, res)
		return
	}

	response.Success(c, http.StatusCreated, noticeMessage(res, "registration successful"), res)
}

func noticeMessage(res domain.Result, fallback string) string {
	if res.Notice != nil && res.Notice.Message != "" {
		return res.Notice.Message
	}
	return fallback
}
