package services

import (
	"context"
	"fmt"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/ledger"
)

// LedgerService reads the current records and runs the ledger over them.
// Nothing is cached, so every result reflects the latest committed write.
type LedgerService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store *repositories.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

// TeacherLedger computes the ledger of one teacher
func (s *LedgerService) TeacherLedger(ctx context.Context, teacherID string) (*ledger.TeacherLedger, error) {
	teacher, err := s.store.Identities.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != domain.RoleTeacher {
		return nil, fmt.Errorf("identity %s is %s: %w", teacherID, teacher.Role, domain.ErrNotFound)
	}

	sessions, err := s.store.Sessions.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.store.Withdrawals.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	l := ledger.ForTeacher(teacherID, sessions, withdrawals, s.now())
	return &l, nil
}

// AdminCashFlow computes incoming and outgoing money over all records
func (s *LedgerService) AdminCashFlow(ctx context.Context) (*ledger.AdminCashFlow, error) {
	payments, err := s.store.Payments.List(ctx)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.store.Withdrawals.List(ctx)
	if err != nil {
		return nil, err
	}

	cf := ledger.CashFlow(payments, withdrawals)
	return &cf, nil
}
