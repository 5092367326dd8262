package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/format"
	"tahfiz-portal/internal/pkg/pagination"
	"tahfiz-portal/internal/pkg/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestWithdrawalInput represents a payout request from a teacher
type RequestWithdrawalInput struct {
	Amount decimal.Decimal `json:"amount"`
	Bank   string          `json:"bank" validate:"required,oneof=Maybank 'CIMB Bank' 'Bank Islam'"`
}

// ResolveWithdrawalInput carries the admin's optional note
type ResolveWithdrawalInput struct {
	Note string `json:"note" validate:"max=500"`
}

// WithdrawalService runs the teacher payout workflow
type WithdrawalService struct {
	store     *repositories.Store
	ledger    *LedgerService
	processor Processor
	notifier  *NotificationService

	mu       sync.Mutex
	inFlight map[string]bool
	now      func() time.Time
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	store *repositories.Store,
	ledger *LedgerService,
	processor Processor,
	notifier *NotificationService,
) *WithdrawalService {
	return &WithdrawalService{
		store:     store,
		ledger:    ledger,
		processor: processor,
		notifier:  notifier,
		inFlight:  make(map[string]bool),
		now:       time.Now,
	}
}

// Request validates the amount against the live balance, runs the simulated
// processing step and records a PENDING withdrawal. A failed step records nothing.
func (s *WithdrawalService) Request(ctx context.Context, actor *domain.Identity, input RequestWithdrawalInput) (*domain.Withdrawal, error) {
	if actor == nil || actor.Role != domain.RoleTeacher {
		return nil, fmt.Errorf("request withdrawal: %w", domain.ErrForbidden)
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	// whole sen only; the store keeps two decimal places
	if !input.Amount.IsPositive() || !input.Amount.Equal(input.Amount.Round(2)) {
		return nil, fmt.Errorf("amount %s: %w", input.Amount, domain.ErrInvalidAmount)
	}

	if !s.begin(actor.ID) {
		return nil, fmt.Errorf("teacher %s: %w", actor.ID, domain.ErrSubmissionInFlight)
	}
	defer s.end(actor.ID)

	l, err := s.ledger.TeacherLedger(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(l.CurrentBalance) {
		return nil, fmt.Errorf("amount %s exceeds balance %s: %w", input.Amount, l.CurrentBalance, domain.ErrInvalidAmount)
	}

	id := uuid.NewString()
	if err := s.processor.Process(ctx, Operation{Kind: OpWithdrawal, Ref: id}); err != nil {
		log.Printf("❌ Withdrawal processing failed for %s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}

	w := &domain.Withdrawal{
		ID:      id,
		UstazID: actor.ID,
		Amount:  input.Amount,
		Date:    s.now(),
		Bank:    input.Bank,
		Status:  domain.WithdrawalPending,
	}
	if err := s.store.Withdrawals.Create(ctx, w); err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal %s requested by %s: %s", w.ID, actor.ID, format.Money(w.Amount))
	if s.notifier != nil {
		s.notifier.NotifyWithdrawalRequested(ctx, w, actor.Name)
	}
	return w, nil
}

// Approve marks a PENDING withdrawal COMPLETED
func (s *WithdrawalService) Approve(ctx context.Context, actor *domain.Identity, id, note string) (*domain.Withdrawal, error) {
	return s.resolve(ctx, actor, id, domain.WithdrawalCompleted, note)
}

// Reject marks a PENDING withdrawal REJECTED, returning its amount to the balance
func (s *WithdrawalService) Reject(ctx context.Context, actor *domain.Identity, id, note string) (*domain.Withdrawal, error) {
	return s.resolve(ctx, actor, id, domain.WithdrawalRejected, note)
}

func (s *WithdrawalService) resolve(ctx context.Context, actor *domain.Identity, id string, status domain.WithdrawalStatus, note string) (*domain.Withdrawal, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("resolve withdrawal: %w", domain.ErrForbidden)
	}

	w, err := s.store.Withdrawals.Resolve(ctx, id, status, actor.ID, note, s.now())
	if err != nil {
		return w, err
	}

	log.Printf("✅ Withdrawal %s %s by %s", w.ID, w.Status, actor.ID)
	if s.notifier != nil {
		s.notifier.NotifyWithdrawalResolved(w)
	}
	return w, nil
}

// ListMine lists the actor's own withdrawals
func (s *WithdrawalService) ListMine(ctx context.Context, actor *domain.Identity) ([]domain.Withdrawal, error) {
	if actor == nil || actor.Role != domain.RoleTeacher {
		return nil, fmt.Errorf("list withdrawals: %w", domain.ErrForbidden)
	}
	return s.store.Withdrawals.ListByTeacher(ctx, actor.ID)
}

// List lists every withdrawal for admins, optionally filtered by status
func (s *WithdrawalService) List(ctx context.Context, actor *domain.Identity, status string, params pagination.Params) ([]domain.Withdrawal, int64, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, 0, fmt.Errorf("list withdrawals: %w", domain.ErrForbidden)
	}

	all, err := s.store.Withdrawals.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := all
	if status != "" {
		filtered = make([]domain.Withdrawal, 0, len(all))
		for _, w := range all {
			if string(w.Status) == status {
				filtered = append(filtered, w)
			}
		}
	}
	return pagination.Slice(filtered, params), int64(len(filtered)), nil
}

func (s *WithdrawalService) begin(teacherID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[teacherID] {
		return false
	}
	s.inFlight[teacherID] = true
	return true
}

func (s *WithdrawalService) end(teacherID string) {
	s.mu.Lock()
	delete(s.inFlight, teacherID)
	s.mu.Unlock()
}
