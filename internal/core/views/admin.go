package views

import (
	"context"
	"time"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/format"
)

// AdminViews renders the school administrator surfaces
type AdminViews struct {
	baseViews
}

// AdminDashboardView is the admin dashboard
type AdminDashboardView struct {
	*services.AdminDashboardData
	IncomingPaidText    string `json:"incoming_paid_text"`
	IncomingPendingText string `json:"incoming_pending_text"`
	OutgoingPendingText string `json:"outgoing_pending_text"`
}

// Dashboard renders the school-wide totals
func (v *AdminViews) Dashboard(ctx context.Context, _ *domain.Identity) (*ViewModel, error) {
	d, err := v.deps.Dashboard.GetAdminDashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &ViewModel{
		Name:     ViewDashboard,
		Title:    "Papan Pemuka Pentadbir",
		Subtitle: "Ringkasan operasi dan kewangan madrasah.",
		Data: AdminDashboardView{
			AdminDashboardData:  d,
			IncomingPaidText:    format.Money(d.IncomingPaid),
			IncomingPendingText: format.Money(d.IncomingPending),
			OutgoingPendingText: format.Money(d.OutgoingPending),
		},
	}, nil
}

// IncomeTab lists parent payments
type IncomeTab struct {
	Payments         []PaymentRow `json:"payments"`
	TotalPaidText    string       `json:"total_paid_text"`
	TotalPendingText string       `json:"total_pending_text"`
}

// PayoutGroup is the withdrawals of one teacher
type PayoutGroup struct {
	TeacherID          string          `json:"teacher_id"`
	TeacherName        string          `json:"teacher_name"`
	Withdrawals        []WithdrawalRow `json:"withdrawals"`
	TotalCompletedText string          `json:"total_completed_text"`
	TotalPendingText   string          `json:"total_pending_text"`
	TotalRejectedText  string          `json:"total_rejected_text"`
}

// PayoutsTab lists teacher withdrawals grouped per teacher
type PayoutsTab struct {
	Groups           []PayoutGroup `json:"groups"`
	PendingCount     int           `json:"pending_count"`
	TotalPendingText string        `json:"total_pending_text"`
}

// AdminPaymentView is the finance centre with both tabs
type AdminPaymentView struct {
	Income  IncomeTab  `json:"income"`
	Payouts PayoutsTab `json:"payouts"`
}

// Payment renders money in (parent fees) and money out (teacher payouts)
func (v *AdminViews) Payment(ctx context.Context, _ *domain.Identity) (*ViewModel, error) {
	cf, err := v.deps.Ledger.AdminCashFlow(ctx)
	if err != nil {
		return nil, err
	}
	n, err := v.loadNames(ctx)
	if err != nil {
		return nil, err
	}

	income := IncomeTab{
		Payments:         make([]PaymentRow, 0, len(cf.Incoming.Paid)+len(cf.Incoming.Pending)),
		TotalPaidText:    format.Money(cf.Incoming.TotalPaid),
		TotalPendingText: format.Money(cf.Incoming.TotalPending),
	}
	for _, p := range cf.Incoming.Paid {
		income.Payments = append(income.Payments, paymentRow(p, n.students[p.StudentID]))
	}
	for _, p := range cf.Incoming.Pending {
		income.Payments = append(income.Payments, paymentRow(p, n.students[p.StudentID]))
	}
	sortByDateDesc(income.Payments, func(r PaymentRow) time.Time { return r.Date })

	payouts := PayoutsTab{
		Groups:           make([]PayoutGroup, 0, len(cf.Outgoing.Teachers)),
		PendingCount:     cf.Outgoing.PendingCount,
		TotalPendingText: format.Money(cf.Outgoing.TotalPending),
	}
	for _, t := range cf.Outgoing.Teachers {
		name := n.identities[t.TeacherID]
		g := PayoutGroup{
			TeacherID:          t.TeacherID,
			TeacherName:        name,
			Withdrawals:        make([]WithdrawalRow, 0, len(t.Withdrawals)),
			TotalCompletedText: format.Money(t.TotalCompleted),
			TotalPendingText:   format.Money(t.TotalPending),
			TotalRejectedText:  format.Money(t.TotalRejected),
		}
		for _, w := range t.Withdrawals {
			g.Withdrawals = append(g.Withdrawals, withdrawalRow(w, name))
		}
		payouts.Groups = append(payouts.Groups, g)
	}

	return &ViewModel{
		Name:     ViewPayment,
		Title:    "Pusat Kewangan",
		Subtitle: "Pantau aliran tunai masuk dan keluar.",
		Data:     AdminPaymentView{Income: income, Payouts: payouts},
	}, nil
}

// Settings renders profile sections plus the school configuration
func (v *AdminViews) Settings(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	return v.settings(ctx, identity, true)
}
