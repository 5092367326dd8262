package handlers

import (
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler serves the in-app inbox
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Inbox returns the caller's notifications, newest first
// @Summary Notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) Inbox(c *fiber.Ctx) error {
	return response.Success(c, "", h.notificationService.Inbox(middleware.CurrentIdentity(c).ID))
}
