package views

import (
	"context"
	"time"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/format"

	"github.com/shopspring/decimal"
)

// TeacherViews renders the ustaz surfaces
type TeacherViews struct {
	baseViews
}

// TeacherDashboardView is the ustaz dashboard
type TeacherDashboardView struct {
	Ledger         LedgerDisplay `json:"ledger"`
	RecentSessions []SessionRow  `json:"recent_sessions"`
}

// Dashboard renders the ledger summary and the latest sessions
func (v *TeacherViews) Dashboard(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	d, err := v.deps.Dashboard.GetTeacherDashboard(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	n, err := v.loadNames(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]SessionRow, 0, len(d.RecentSessions))
	for _, s := range d.RecentSessions {
		rows = append(rows, sessionRow(s, n.students[s.StudentID]))
	}
	return &ViewModel{
		Name:     ViewDashboard,
		Title:    "Assalamualaikum, " + identity.Name,
		Subtitle: "Ringkasan sesi dan pendapatan anda.",
		Data:     TeacherDashboardView{Ledger: displayLedger(d.Ledger), RecentSessions: rows},
	}, nil
}

// History entry kinds
const (
	EntryWithdrawal = "WITHDRAWAL"
	EntryEarning    = "EARNING"
)

// HistoryEntry is one line of the transaction history
type HistoryEntry struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Date        time.Time       `json:"date"`
	DateText    string          `json:"date_text"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AmountText  string          `json:"amount_text"`
	Status      string          `json:"status"`
}

// TeacherPaymentView is the wallet page
type TeacherPaymentView struct {
	Ledger               LedgerDisplay  `json:"ledger"`
	CanRequestWithdrawal bool           `json:"can_request_withdrawal"`
	Banks                []string       `json:"banks"`
	History              []HistoryEntry `json:"history"`
}

// Payment renders the wallet: balance, request affordance and history
func (v *TeacherViews) Payment(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	l, err := v.deps.Ledger.TeacherLedger(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := v.deps.Store.Withdrawals.ListByTeacher(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	sessions, err := v.deps.Store.Sessions.ListByTeacher(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, len(withdrawals)+len(sessions))
	for _, w := range withdrawals {
		history = append(history, HistoryEntry{
			ID:          w.ID,
			Kind:        EntryWithdrawal,
			Date:        w.Date,
			DateText:    format.Date(w.Date),
			Description: "Pindahan ke " + w.Bank,
			Amount:      w.Amount,
			AmountText:  "- " + format.Money(w.Amount),
			Status:      string(w.Status),
		})
	}
	for _, s := range sessions {
		history = append(history, HistoryEntry{
			ID:          s.ID,
			Kind:        EntryEarning,
			Date:        s.Date,
			DateText:    format.Date(s.Date),
			Description: "Sesi: " + s.Topic,
			Amount:      s.Fee,
			AmountText:  "+ " + format.Money(s.Fee),
			Status:      "SELESAI",
		})
	}
	sortByDateDesc(history, func(e HistoryEntry) time.Time { return e.Date })

	return &ViewModel{
		Name:     ViewPayment,
		Title:    "Dompet & Pendapatan",
		Subtitle: "Uruskan pendapatan hafazan anda.",
		Data: TeacherPaymentView{
			Ledger:               displayLedger(l),
			CanRequestWithdrawal: l.CurrentBalance.IsPositive(),
			Banks:                append([]string(nil), domain.Banks...),
			History:              history,
		},
	}, nil
}

// Settings renders the profile sections only
func (v *TeacherViews) Settings(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	return v.settings(ctx, identity, false)
}
