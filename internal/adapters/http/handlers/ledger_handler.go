package handlers

import (
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LedgerHandler exposes the derived balances
type LedgerHandler struct {
	ledgerService *services.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Mine returns the calling teacher's ledger
// @Summary My ledger
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/ledger/me [get]
func (h *LedgerHandler) Mine(c *fiber.Ctx) error {
	l, err := h.ledgerService.TeacherLedger(c.UserContext(), middleware.CurrentIdentity(c).ID)
	if err != nil {
		return fail(c, err, "Gagal mengira lejar")
	}
	return response.Success(c, "", l)
}

// Teacher returns any teacher's ledger
// @Summary Teacher ledger
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/ledger/teachers/{id} [get]
func (h *LedgerHandler) Teacher(c *fiber.Ctx) error {
	l, err := h.ledgerService.TeacherLedger(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Gagal mengira lejar")
	}
	return response.Success(c, "", l)
}

// CashFlow returns money in and money out for the whole school
// @Summary Admin cash flow
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/ledger/cashflow [get]
func (h *LedgerHandler) CashFlow(c *fiber.Ctx) error {
	cf, err := h.ledgerService.AdminCashFlow(c.UserContext())
	if err != nil {
		return fail(c, err, "Gagal mengira aliran tunai")
	}
	return response.Success(c, "", cf)
}
