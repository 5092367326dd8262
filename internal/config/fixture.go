package config

import (
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"

	"github.com/shopspring/decimal"
)

// DemoFixture returns the seeded demo records. Session dates are laid out
// around now so that the monthly figures are never empty: one of Ustaz
// Ahmad's sessions falls in the previous month, the rest in the current one.
func DemoFixture(now time.Time) *repositories.Fixture {
	monthStart := time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, now.Location())
	lastMonth := monthStart.AddDate(0, -1, 14)
	thisMonth := func(hours int) time.Time { return monthStart.Add(time.Duration(hours) * time.Hour) }

	fee := decimal.NewFromInt(45)

	return &repositories.Fixture{
		Identities: []domain.Identity{
			{ID: "u1", Role: domain.RoleAdmin, Name: "Tuan Haji Ismail", Email: "admin@tahfiz.my"},
			{ID: "u2", Role: domain.RoleTeacher, Name: "Ustaz Ahmad", Email: "ahmad@tahfiz.my"},
			{ID: "u3", Role: domain.RoleTeacher, Name: "Ustazah Aminah", Email: "aminah@tahfiz.my"},
			{ID: "u4", Role: domain.RoleParent, Name: "Encik Ali", Email: "ali@gmail.com"},
		},
		Students: []domain.Student{
			{ID: "st1", ParentID: "u4", Name: "Muhammad Adam"},
			{ID: "st2", ParentID: "u4", Name: "Nur Hawa"},
		},
		Sessions: []domain.Session{
			{ID: "s1", UstazID: "u2", StudentID: "st1", Fee: fee, Date: lastMonth, Topic: "Al-Mulk 1-10"},
			{ID: "s2", UstazID: "u2", StudentID: "st2", Fee: fee, Date: thisMonth(0), Topic: "An-Naba 1-20"},
			{ID: "s3", UstazID: "u2", StudentID: "st1", Fee: fee, Date: thisMonth(2), Topic: "Al-Mulk 11-20"},
			{ID: "s4", UstazID: "u3", StudentID: "st2", Fee: fee, Date: thisMonth(1), Topic: "An-Naziat 1-15"},
			{ID: "s5", UstazID: "u3", StudentID: "st1", Fee: fee, Date: thisMonth(3), Topic: "Abasa 1-20"},
		},
		Payments: []domain.Payment{
			{ID: "p1", StudentID: "st1", Amount: fee, Date: lastMonth, Method: domain.MethodBankTransfer, Status: domain.PaymentPaid, PaidAt: &lastMonth},
			{ID: "p2", StudentID: "st2", Amount: fee, Date: thisMonth(0), Status: domain.PaymentPending},
		},
		Withdrawals: []domain.Withdrawal{
			{ID: "w1", UstazID: "u2", Amount: decimal.NewFromInt(50), Date: lastMonth.AddDate(0, 0, 3), Bank: "Bank Islam", Status: domain.WithdrawalCompleted, ResolvedBy: "u1"},
			{ID: "w2", UstazID: "u2", Amount: decimal.NewFromInt(20), Date: thisMonth(4), Bank: "Maybank", Status: domain.WithdrawalPending},
			{ID: "w3", UstazID: "u3", Amount: decimal.NewFromInt(30), Date: thisMonth(5), Bank: "CIMB Bank", Status: domain.WithdrawalPending},
		},
		SchoolConfig: domain.SchoolConfig{
			Name: "Maahad Tahfiz Al-Furqan",
			Rates: domain.Rates{
				PerSession:   fee,
				PerPage:      decimal.NewFromInt(5),
				PackagePrice: decimal.NewFromInt(150),
			},
		},
	}
}
