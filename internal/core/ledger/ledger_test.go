package ledger

import (
	"testing"
	"time"

	"tahfiz-portal/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rm(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestForTeacherScenario(t *testing.T) {
	sessions := []domain.Session{
		{ID: "s1", UstazID: "u2", StudentID: "st1", Fee: rm(45), Date: at(2024, 5, 2)},
		{ID: "s2", UstazID: "u2", StudentID: "st2", Fee: rm(45), Date: at(2024, 5, 9)},
		{ID: "s3", UstazID: "u2", StudentID: "st1", Fee: rm(45), Date: at(2024, 4, 20)},
		{ID: "s4", UstazID: "u3", StudentID: "st2", Fee: rm(60), Date: at(2024, 5, 3)},
	}
	withdrawals := []domain.Withdrawal{
		{ID: "w1", UstazID: "u2", Amount: rm(50), Status: domain.WithdrawalCompleted},
		{ID: "w2", UstazID: "u2", Amount: rm(20), Status: domain.WithdrawalPending},
		{ID: "w3", UstazID: "u2", Amount: rm(500), Status: domain.WithdrawalRejected},
		{ID: "w4", UstazID: "u3", Amount: rm(10), Status: domain.WithdrawalPending},
	}

	l := ForTeacher("u2", sessions, withdrawals, at(2024, 5, 15))

	assert.True(t, l.TotalEarnings.Equal(rm(135)), "earnings %s", l.TotalEarnings)
	assert.True(t, l.TotalWithdrawn.Equal(rm(50)))
	assert.True(t, l.PendingWithdrawal.Equal(rm(20)))
	assert.True(t, l.CurrentBalance.Equal(rm(65)), "balance %s", l.CurrentBalance)
	assert.Equal(t, 3, l.SessionCount)
	assert.True(t, l.AveragePerSession.Equal(rm(45)))
	assert.True(t, l.EarningsThisMonth.Equal(rm(90)))
}

func TestForTeacherWithoutRecords(t *testing.T) {
	l := ForTeacher("nobody", nil, nil, time.Now())

	assert.True(t, l.CurrentBalance.IsZero())
	assert.True(t, l.AveragePerSession.IsZero())
	assert.Equal(t, 0, l.SessionCount)
}

func TestForTeacherBalanceIdentity(t *testing.T) {
	sessions := []domain.Session{
		{UstazID: "u2", Fee: decimal.RequireFromString("45.50")},
		{UstazID: "u2", Fee: decimal.RequireFromString("12.25")},
	}
	withdrawals := []domain.Withdrawal{
		{UstazID: "u2", Amount: decimal.RequireFromString("10.10"), Status: domain.WithdrawalCompleted},
		{UstazID: "u2", Amount: decimal.RequireFromString("7.65"), Status: domain.WithdrawalPending},
	}

	l := ForTeacher("u2", sessions, withdrawals, time.Now())

	expected := l.TotalEarnings.Sub(l.TotalWithdrawn).Sub(l.PendingWithdrawal)
	assert.True(t, l.CurrentBalance.Equal(expected))
	assert.Equal(t, "40", l.CurrentBalance.String())
}

func TestCashFlow(t *testing.T) {
	payments := []domain.Payment{
		{ID: "p1", Amount: rm(45), Status: domain.PaymentPaid},
		{ID: "p2", Amount: rm(45), Status: domain.PaymentPending},
		{ID: "p3", Amount: rm(90), Status: domain.PaymentPaid},
	}
	withdrawals := []domain.Withdrawal{
		{ID: "w3", UstazID: "u3", Amount: rm(30), Status: domain.WithdrawalPending},
		{ID: "w1", UstazID: "u2", Amount: rm(50), Status: domain.WithdrawalCompleted},
		{ID: "w2", UstazID: "u2", Amount: rm(20), Status: domain.WithdrawalPending},
		{ID: "w5", UstazID: "u2", Amount: rm(5), Status: domain.WithdrawalRejected},
	}

	cf := CashFlow(payments, withdrawals)

	require.Len(t, cf.Incoming.Paid, 2)
	require.Len(t, cf.Incoming.Pending, 1)
	assert.True(t, cf.Incoming.TotalPaid.Equal(rm(135)))
	assert.True(t, cf.Incoming.TotalPending.Equal(rm(45)))

	require.Len(t, cf.Outgoing.Teachers, 2)
	assert.Equal(t, "u2", cf.Outgoing.Teachers[0].TeacherID)
	assert.Len(t, cf.Outgoing.Teachers[0].Withdrawals, 3)
	assert.True(t, cf.Outgoing.Teachers[0].TotalCompleted.Equal(rm(50)))
	assert.True(t, cf.Outgoing.Teachers[0].TotalPending.Equal(rm(20)))
	assert.True(t, cf.Outgoing.Teachers[0].TotalRejected.Equal(rm(5)))
	assert.True(t, cf.Outgoing.TotalPending.Equal(rm(50)))
	assert.Equal(t, 2, cf.Outgoing.PendingCount)
}

func TestCashFlowEmpty(t *testing.T) {
	cf := CashFlow(nil, nil)

	assert.NotNil(t, cf.Incoming.Paid)
	assert.NotNil(t, cf.Outgoing.Teachers)
	assert.True(t, cf.Outgoing.TotalPending.IsZero())
}
