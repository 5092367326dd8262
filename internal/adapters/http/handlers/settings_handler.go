package handlers

import (
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles profile and school configuration
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// SaveProfile updates the caller's name and email
// @Summary Save profile
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ProfileInput true "Profile"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/settings/profile [put]
func (h *SettingsHandler) SaveProfile(c *fiber.Ctx) error {
	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Badan permintaan tidak sah")
	}

	identity, err := h.settingsService.SaveProfile(c.UserContext(), middleware.CurrentIdentity(c), input)
	if err != nil {
		return fail(c, err, "Gagal menyimpan profil")
	}
	return response.Success(c, "Profil disimpan", identity)
}

// GetSchool returns the school configuration
// @Summary Get school configuration
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/settings/school [get]
func (h *SettingsHandler) GetSchool(c *fiber.Ctx) error {
	cfg, err := h.settingsService.SchoolConfig(c.UserContext())
	if err != nil {
		return fail(c, err, "Gagal memuatkan konfigurasi sekolah")
	}
	return response.Success(c, "", cfg)
}

// SaveSchool replaces the school configuration
// @Summary Save school configuration
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.SchoolConfig true "School configuration"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/settings/school [put]
func (h *SettingsHandler) SaveSchool(c *fiber.Ctx) error {
	var input domain.SchoolConfig
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Badan permintaan tidak sah")
	}

	cfg, err := h.settingsService.SaveSchoolConfig(c.UserContext(), middleware.CurrentIdentity(c), input)
	if err != nil {
		return fail(c, err, "Gagal menyimpan konfigurasi")
	}
	return response.Success(c, "Konfigurasi disimpan", cfg)
}
