// Package ledger derives teacher balances and the admin cash-flow view from
// session, payment and withdrawal records. Nothing here is stored: every value
// is recomputed from the records handed in.
package ledger

import (
	"sort"
	"time"

	"tahfiz-portal/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TeacherLedger is the withdrawable position of one teacher
type TeacherLedger struct {
	TeacherID         string          `json:"teacher_id"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	TotalWithdrawn    decimal.Decimal `json:"total_withdrawn"`
	PendingWithdrawal decimal.Decimal `json:"pending_withdrawal"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`

	SessionCount      int             `json:"session_count"`
	AveragePerSession decimal.Decimal `json:"average_per_session"`
	EarningsThisMonth decimal.Decimal `json:"earnings_this_month"`
}

// ForTeacher computes the ledger of teacherID. Records that belong to other
// teachers are ignored, so callers may pass the full record set.
func ForTeacher(teacherID string, sessions []domain.Session, withdrawals []domain.Withdrawal, now time.Time) TeacherLedger {
	l := TeacherLedger{
		TeacherID:         teacherID,
		TotalEarnings:     decimal.Zero,
		TotalWithdrawn:    decimal.Zero,
		PendingWithdrawal: decimal.Zero,
		AveragePerSession: decimal.Zero,
		EarningsThisMonth: decimal.Zero,
	}

	year, month, _ := now.Date()
	for _, s := range sessions {
		if s.UstazID != teacherID {
			continue
		}
		l.SessionCount++
		l.TotalEarnings = l.TotalEarnings.Add(s.Fee)
		sy, sm, _ := s.Date.In(now.Location()).Date()
		if sy == year && sm == month {
			l.EarningsThisMonth = l.EarningsThisMonth.Add(s.Fee)
		}
	}

	for _, w := range withdrawals {
		if w.UstazID != teacherID {
			continue
		}
		switch w.Status {
		case domain.WithdrawalCompleted:
			l.TotalWithdrawn = l.TotalWithdrawn.Add(w.Amount)
		case domain.WithdrawalPending:
			l.PendingWithdrawal = l.PendingWithdrawal.Add(w.Amount)
		}
	}

	l.CurrentBalance = l.TotalEarnings.Sub(l.TotalWithdrawn).Sub(l.PendingWithdrawal)
	if l.SessionCount > 0 {
		l.AveragePerSession = l.TotalEarnings.Div(decimal.NewFromInt(int64(l.SessionCount))).Round(2)
	}
	return l
}

// Incoming partitions parent payments by status
type Incoming struct {
	Paid         []domain.Payment `json:"paid"`
	Pending      []domain.Payment `json:"pending"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
	TotalPending decimal.Decimal  `json:"total_pending"`
}

// TeacherPayouts groups the withdrawals of one teacher
type TeacherPayouts struct {
	TeacherID      string              `json:"teacher_id"`
	Withdrawals    []domain.Withdrawal `json:"withdrawals"`
	TotalCompleted decimal.Decimal     `json:"total_completed"`
	TotalPending   decimal.Decimal     `json:"total_pending"`
	TotalRejected  decimal.Decimal     `json:"total_rejected"`
}

// Outgoing holds withdrawals grouped per teacher, sorted by teacher id
type Outgoing struct {
	Teachers     []TeacherPayouts `json:"teachers"`
	TotalPending decimal.Decimal  `json:"total_pending"`
	PendingCount int              `json:"pending_count"`
}

// AdminCashFlow is the admin view over all money in and out
type AdminCashFlow struct {
	Incoming Incoming `json:"incoming"`
	Outgoing Outgoing `json:"outgoing"`
}

// CashFlow builds the admin cash-flow view from the full record set
func CashFlow(payments []domain.Payment, withdrawals []domain.Withdrawal) AdminCashFlow {
	in := Incoming{
		Paid:         []domain.Payment{},
		Pending:      []domain.Payment{},
		TotalPaid:    decimal.Zero,
		TotalPending: decimal.Zero,
	}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentPaid:
			in.Paid = append(in.Paid, p)
			in.TotalPaid = in.TotalPaid.Add(p.Amount)
		case domain.PaymentPending:
			in.Pending = append(in.Pending, p)
			in.TotalPending = in.TotalPending.Add(p.Amount)
		}
	}

	byTeacher := make(map[string]*TeacherPayouts)
	out := Outgoing{Teachers: []TeacherPayouts{}, TotalPending: decimal.Zero}
	for _, w := range withdrawals {
		group, ok := byTeacher[w.UstazID]
		if !ok {
			group = &TeacherPayouts{
				TeacherID:      w.UstazID,
				Withdrawals:    []domain.Withdrawal{},
				TotalCompleted: decimal.Zero,
				TotalPending:   decimal.Zero,
				TotalRejected:  decimal.Zero,
			}
			byTeacher[w.UstazID] = group
		}
		group.Withdrawals = append(group.Withdrawals, w)
		switch w.Status {
		case domain.WithdrawalCompleted:
			group.TotalCompleted = group.TotalCompleted.Add(w.Amount)
		case domain.WithdrawalPending:
			group.TotalPending = group.TotalPending.Add(w.Amount)
			out.TotalPending = out.TotalPending.Add(w.Amount)
			out.PendingCount++
		case domain.WithdrawalRejected:
			group.TotalRejected = group.TotalRejected.Add(w.Amount)
		}
	}

	for _, group := range byTeacher {
		out.Teachers = append(out.Teachers, *group)
	}
	sort.Slice(out.Teachers, func(i, j int) bool {
		return out.Teachers[i].TeacherID < out.Teachers[j].TeacherID
	})

	return AdminCashFlow{Incoming: in, Outgoing: out}
}
