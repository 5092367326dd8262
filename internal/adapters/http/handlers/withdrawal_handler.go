package handlers

import (
	"context"
	"strings"

	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/pagination"
	"tahfiz-portal/internal/pkg/response"
	"tahfiz-portal/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler handles teacher payout endpoints
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// Request handles a teacher's payout request
// @Summary Request withdrawal
// @Description Amount must be positive and not exceed the current balance
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RequestWithdrawalInput true "Amount and bank"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/withdrawals [post]
func (h *WithdrawalHandler) Request(c *fiber.Ctx) error {
	var input services.RequestWithdrawalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Badan permintaan tidak sah")
	}

	w, err := h.withdrawalService.Request(c.UserContext(), middleware.CurrentIdentity(c), input)
	if err != nil {
		return fail(c, err, "Gagal menghantar permohonan")
	}

	return response.Created(c, "Permohonan pengeluaran dihantar", w)
}

// ListMine lists the calling teacher's withdrawals
// @Summary My withdrawals
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/withdrawals/my [get]
func (h *WithdrawalHandler) ListMine(c *fiber.Ctx) error {
	list, err := h.withdrawalService.ListMine(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err, "Gagal menyenaraikan pengeluaran")
	}
	return response.Success(c, "", list)
}

// List lists all withdrawals for admins
// @Summary List withdrawals
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, COMPLETED or REJECTED"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /api/v1/withdrawals [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))

	list, total, err := h.withdrawalService.List(c.UserContext(), middleware.CurrentIdentity(c), status, params)
	if err != nil {
		return fail(c, err, "Gagal menyenaraikan pengeluaran")
	}
	return response.Success(c, "", pagination.NewResponse(list, params, total))
}

// Approve completes a pending withdrawal
// @Summary Approve withdrawal
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Withdrawal ID"
// @Param body body services.ResolveWithdrawalInput false "Note"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/withdrawals/{id}/approve [put]
func (h *WithdrawalHandler) Approve(c *fiber.Ctx) error {
	return h.resolve(c, h.withdrawalService.Approve, "Pengeluaran diluluskan")
}

// Reject rejects a pending withdrawal
// @Summary Reject withdrawal
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Withdrawal ID"
// @Param body body services.ResolveWithdrawalInput false "Note"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/withdrawals/{id}/reject [put]
func (h *WithdrawalHandler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, h.withdrawalService.Reject, "Pengeluaran ditolak")
}

type resolveFunc func(ctx context.Context, actor *domain.Identity, id, note string) (*domain.Withdrawal, error)

func (h *WithdrawalHandler) resolve(c *fiber.Ctx, fn resolveFunc, message string) error {
	var input services.ResolveWithdrawalInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Badan permintaan tidak sah")
		}
	}
	if err := validate.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	w, err := fn(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), strings.TrimSpace(input.Note))
	if err != nil {
		if w == nil {
			return fail(c, err, "Gagal memproses permohonan")
		}
		return failWith(c, err, w, "Gagal memproses permohonan")
	}
	return response.Success(c, message, w)
}
