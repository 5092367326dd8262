package handlers

import (
	"time"

	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/core/views"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles role selection and session endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Role string `json:"role" example:"TEACHER"`
}

// NavigateRequest represents navigation request body
type NavigateRequest struct {
	View string `json:"view" example:"payment"`
}

// Login handles role selection
// @Summary Select role
// @Description Log in as the first demo identity of the given role. When no identity exists for the role the landing view is returned with a status message.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Badan permintaan tidak sah")
	}

	result, err := h.authService.SelectRole(c.UserContext(), req.Role)
	if err != nil {
		return failWith(c, err, views.Landing(domain.Message(err)), "Gagal log masuk")
	}

	h.setAuthCookie(c, result.Token, result.ExpiresAt)

	return response.Success(c, "Log masuk berjaya", result)
}

// Logout handles logout. It always succeeds.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		h.authService.Logout(sess.ID)
	}
	h.clearAuthCookie(c)

	return response.Success(c, "Log keluar berjaya", views.Landing(""))
}

// Me returns the current session and identity
// @Summary Current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return response.Success(c, "Sesi semasa", fiber.Map{
		"session":  middleware.CurrentSession(c),
		"identity": middleware.CurrentIdentity(c),
	})
}

// Navigate records the view the session is on
// @Summary Navigate
// @Description Set the current view of the session. Any non-empty name is accepted; unknown names render the placeholder.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NavigateRequest true "View name"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/navigation [put]
func (h *AuthHandler) Navigate(c *fiber.Ctx) error {
	var req NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Badan permintaan tidak sah")
	}

	sess, err := h.authService.Navigate(middleware.CurrentSession(c).ID, req.View)
	if err != nil {
		return fail(c, err, "Gagal menukar paparan")
	}

	return response.Success(c, "Paparan dikemas kini", sess)
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: "Lax",
		Path:     "/",
	})
}
