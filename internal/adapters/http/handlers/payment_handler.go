package handlers

import (
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles parent fee payments and their dialogs
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// SelectMethodRequest represents the method selection body
type SelectMethodRequest struct {
	Method string `json:"method" example:"QR"`
}

// Outstanding lists the caller's unpaid fees
// @Summary Outstanding payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/payments/outstanding [get]
func (h *PaymentHandler) Outstanding(c *fiber.Ctx) error {
	list, err := h.paymentService.Outstanding(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err, "Gagal menyenaraikan bayaran")
	}
	return response.Success(c, "", list)
}

// OpenDialog starts paying one outstanding fee
// @Summary Open payment dialog
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/payments/{id}/dialogs [post]
func (h *PaymentHandler) OpenDialog(c *fiber.Ctx) error {
	d, err := h.paymentService.OpenDialog(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Gagal membuka pembayaran")
	}
	return response.Created(c, "", d)
}

// GetDialog returns a dialog snapshot
// @Summary Get payment dialog
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dialog ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/payment-dialogs/{id} [get]
func (h *PaymentHandler) GetDialog(c *fiber.Ctx) error {
	d, err := h.paymentService.Get(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Gagal memuatkan pembayaran")
	}
	return response.Success(c, "", d)
}

// SelectMethod sets the dialog's payment method
// @Summary Select payment method
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dialog ID"
// @Param body body SelectMethodRequest true "BANK_TRANSFER, QR, CARD or CASH"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/payment-dialogs/{id}/method [put]
func (h *PaymentHandler) SelectMethod(c *fiber.Ctx) error {
	var req SelectMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Badan permintaan tidak sah")
	}

	d, err := h.paymentService.SelectMethod(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), req.Method)
	if err != nil {
		return fail(c, err, "Gagal memilih kaedah")
	}
	return response.Success(c, "", d)
}

// Submit runs the payment with the selected method
// @Summary Submit payment
// @Description A failed submission returns 502 with the FAILED dialog; the dialog can be retried.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dialog ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/payment-dialogs/{id}/submit [post]
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	d, err := h.paymentService.Submit(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"))
	if err != nil {
		if d == nil {
			return fail(c, err, "Gagal memproses pembayaran")
		}
		return failWith(c, err, d, "Gagal memproses pembayaran")
	}
	return response.Success(c, "Pembayaran berjaya", d)
}

// Cancel closes a dialog, aborting an in-flight submission
// @Summary Cancel payment dialog
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dialog ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/payment-dialogs/{id} [delete]
func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	d, err := h.paymentService.Cancel(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Gagal membatalkan pembayaran")
	}
	return response.Success(c, "", d)
}
