package handlers

import (
	"errors"
	"log"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// statusOf maps a domain error to its HTTP status; 0 means unmapped
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrPaymentAlreadyPaid),
		errors.Is(err, domain.ErrDialogClosed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNoAccountForRole),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSubmissionFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidPaymentMethod):
		return fiber.StatusBadRequest
	}
	return 0
}

// fail writes err as a condition response, or a 500 with fallback when the
// error is outside the domain taxonomy
func fail(c *fiber.Ctx, err error, fallback string) error {
	if status := statusOf(err); status != 0 {
		return response.Condition(c, status, err)
	}
	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, fallback)
}

// failWith is fail for errors that still carry a payload
func failWith(c *fiber.Ctx, err error, data interface{}, fallback string) error {
	if status := statusOf(err); status != 0 {
		return response.ConditionData(c, status, err, data)
	}
	return fail(c, err, fallback)
}
