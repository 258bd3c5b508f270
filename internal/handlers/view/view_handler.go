// internal/handlers/view/view_handler.go
package view

import (
	"net/http"

	"storefront-client/internal/guard"
	"storefront-client/internal/pkg/response"
	"storefront-client/internal/ui"

	"github.com/gin-gonic/gin"
)

type Resolver interface {
	Resolve(path string) (guard.Policy, guard.Decision)
}

// NavigationLog is what the view layer polls when it has no socket.
type NavigationLog interface {
	Last() ui.View
	History() []ui.View
	Drain() []ui.Notice
}

type ViewHandler struct {
	resolver Resolver
	log      NavigationLog
}

func NewViewHandler(resolver Resolver, log NavigationLog) *ViewHandler {
	return &ViewHandler{resolver: resolver, log: log}
}

// Resolve reports whether the view at ?path= may render right now.
func (h *ViewHandler) Resolve(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		response.ValidationError(c, "path is required", nil)
		return
	}

	policy, decision := h.resolver.Resolve(path)
	response.Success(c, http.StatusOK, "view resolved", gin.H{
		"path":     path,
		"policy":   policy,
		"decision": decision,
	})
}

// Navigation returns the last navigation signal and drains pending notices.
func (h *ViewHandler) Navigation(c *gin.Context) {
	response.Success(c, http.StatusOK, "navigation", gin.H{
		"current": h.log.Last(),
		"history": h.log.History(),
		"notices": h.log.Drain(),
	})
}
