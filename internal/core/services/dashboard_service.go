package services

import (
	"context"
	"fmt"
	"sort"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/ledger"

	"github.com/shopspring/decimal"
)

// RecentSessionLimit caps the recent sessions shown on a teacher dashboard
const RecentSessionLimit = 5

// DashboardService handles dashboard operations
type DashboardService struct {
	store  *repositories.Store
	ledger *LedgerService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *repositories.Store, ledger *LedgerService) *DashboardService {
	return &DashboardService{store: store, ledger: ledger}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalStudents int `json:"total_students"`
	TotalTeachers int `json:"total_teachers"`
	TotalSessions int `json:"total_sessions"`

	IncomingPaid       decimal.Decimal `json:"incoming_paid"`
	IncomingPending    decimal.Decimal `json:"incoming_pending"`
	OutgoingPending    decimal.Decimal `json:"outgoing_pending"`
	PendingWithdrawals int             `json:"pending_withdrawals"`
}

// GetAdminDashboard gets the school-wide totals
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	students, err := s.store.Students.List(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.store.Identities.ListByRole(ctx, domain.RoleTeacher)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	cf, err := s.ledger.AdminCashFlow(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminDashboardData{
		TotalStudents:      len(students),
		TotalTeachers:      len(teachers),
		TotalSessions:      len(sessions),
		IncomingPaid:       cf.Incoming.TotalPaid,
		IncomingPending:    cf.Incoming.TotalPending,
		OutgoingPending:    cf.Outgoing.TotalPending,
		PendingWithdrawals: cf.Outgoing.PendingCount,
	}, nil
}

// ============================================================
// Teacher Dashboard
// ============================================================

// TeacherDashboardData represents teacher dashboard data
type TeacherDashboardData struct {
	Ledger         *ledger.TeacherLedger `json:"ledger"`
	RecentSessions []domain.Session      `json:"recent_sessions"`
}

// GetTeacherDashboard gets the teacher's ledger and latest sessions
func (s *DashboardService) GetTeacherDashboard(ctx context.Context, teacherID string) (*TeacherDashboardData, error) {
	l, err := s.ledger.TeacherLedger(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})
	if len(sessions) > RecentSessionLimit {
		sessions = sessions[:RecentSessionLimit]
	}

	return &TeacherDashboardData{Ledger: l, RecentSessions: sessions}, nil
}

// ============================================================
// Parent Dashboard
// ============================================================

// ParentDashboardData represents parent dashboard data
type ParentDashboardData struct {
	Children         []*domain.Student `json:"children"`
	Outstanding      []domain.Payment  `json:"outstanding"`
	OutstandingTotal decimal.Decimal   `json:"outstanding_total"`
	SessionCount     int               `json:"session_count"`
}

// GetParentDashboard gets the parent's children and fees still owed
func (s *DashboardService) GetParentDashboard(ctx context.Context, parentID string) (*ParentDashboardData, error) {
	children, err := s.store.Students.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := studentIDs(children)

	payments, err := s.store.Payments.ListByStudents(ctx, ids)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListByStudents(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := &ParentDashboardData{
		Children:         children,
		Outstanding:      []domain.Payment{},
		OutstandingTotal: decimal.Zero,
		SessionCount:     len(sessions),
	}
	for _, p := range payments {
		if p.Status == domain.PaymentPending {
			data.Outstanding = append(data.Outstanding, p)
			data.OutstandingTotal = data.OutstandingTotal.Add(p.Amount)
		}
	}
	return data, nil
}

// GetDashboard dispatches on the caller's role
func (s *DashboardService) GetDashboard(ctx context.Context, actor *domain.Identity) (interface{}, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return s.GetAdminDashboard(ctx)
	case domain.RoleTeacher:
		return s.GetTeacherDashboard(ctx, actor.ID)
	case domain.RoleParent:
		return s.GetParentDashboard(ctx, actor.ID)
	}
	return nil, fmt.Errorf("role %s: %w", actor.Role, domain.ErrInvalidRole)
}
