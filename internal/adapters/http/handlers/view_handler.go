package handlers

import (
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/views"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ViewHandler renders the view-model for the current session
type ViewHandler struct {
	router *views.Router
}

// NewViewHandler creates a new view handler
func NewViewHandler(router *views.Router) *ViewHandler {
	return &ViewHandler{router: router}
}

// View resolves a view for the caller. Anonymous callers always get the
// landing view; without a name the session's current view is used.
// @Summary Resolve view
// @Tags View
// @Produce json
// @Param name query string false "View name (dashboard, payment, settings, ...)"
// @Success 200 {object} response.Response
// @Router /api/v1/view [get]
func (h *ViewHandler) View(c *fiber.Ctx) error {
	name := c.Query("name")
	if sess := middleware.CurrentSession(c); sess != nil && name == "" {
		name = sess.View
	}

	vm, err := h.router.Resolve(c.UserContext(), middleware.CurrentIdentity(c), name)
	if err != nil {
		return fail(c, err, "Gagal memaparkan halaman")
	}

	return response.Success(c, "", vm)
}
