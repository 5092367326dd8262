package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/format"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DialogState is the state of a payment dialog
type DialogState string

const (
	DialogSelectingMethod DialogState = "SELECTING_METHOD"
	DialogSubmitting      DialogState = "SUBMITTING"
	DialogSucceeded       DialogState = "SUCCEEDED"
	// DialogFailed is only ever reported by Submit; the stored dialog is
	// back in SELECTING_METHOD by the time the caller sees it.
	DialogFailed DialogState = "FAILED"
)

// PaymentDialog is a snapshot of one parent's attempt to settle a payment
type PaymentDialog struct {
	ID        string               `json:"id"`
	ParentID  string               `json:"parent_id"`
	PaymentID string               `json:"payment_id"`
	StudentID string               `json:"student_id"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    domain.PaymentMethod `json:"method"`
	State     DialogState          `json:"state"`
	LastError string               `json:"last_error,omitempty"`
	Closed    bool                 `json:"closed"`
	OpenedAt  time.Time            `json:"opened_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type dialog struct {
	PaymentDialog
	cancel context.CancelFunc
}

// PaymentService runs the parent fee payment workflow
type PaymentService struct {
	store     *repositories.Store
	processor Processor
	notifier  *NotificationService
	timeout   time.Duration

	mu         sync.Mutex
	dialogs    map[string]*dialog
	submitting map[string]string // payment id -> dialog id
	now        func() time.Time
}

// NewPaymentService creates a new payment service. timeout bounds one
// submission; zero means no bound beyond the caller's context.
func NewPaymentService(
	store *repositories.Store,
	processor Processor,
	notifier *NotificationService,
	timeout time.Duration,
) *PaymentService {
	return &PaymentService{
		store:      store,
		processor:  processor,
		notifier:   notifier,
		timeout:    timeout,
		dialogs:    make(map[string]*dialog),
		submitting: make(map[string]string),
		now:        time.Now,
	}
}

// Children lists the parent's students
func (s *PaymentService) Children(ctx context.Context, parent *domain.Identity) ([]*domain.Student, error) {
	if parent == nil || parent.Role != domain.RoleParent {
		return nil, fmt.Errorf("list children: %w", domain.ErrForbidden)
	}
	return s.store.Students.ListByParent(ctx, parent.ID)
}

// ForParent returns every payment belonging to the parent's students
func (s *PaymentService) ForParent(ctx context.Context, parent *domain.Identity) ([]domain.Payment, error) {
	children, err := s.Children(ctx, parent)
	if err != nil {
		return nil, err
	}
	return s.store.Payments.ListByStudents(ctx, studentIDs(children))
}

// Outstanding lists the PENDING payments of the parent's students
func (s *PaymentService) Outstanding(ctx context.Context, parent *domain.Identity) ([]domain.Payment, error) {
	all, err := s.ForParent(ctx, parent)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(all))
	for _, p := range all {
		if p.Status == domain.PaymentPending {
			out = append(out, p)
		}
	}
	return out, nil
}

// OpenDialog starts a dialog for one PENDING payment of the parent's child
func (s *PaymentService) OpenDialog(ctx context.Context, parent *domain.Identity, paymentID string) (*PaymentDialog, error) {
	if parent == nil || parent.Role != domain.RoleParent {
		return nil, fmt.Errorf("open payment dialog: %w", domain.ErrForbidden)
	}

	p, err := s.store.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.Students.GetByID(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	if student.ParentID != parent.ID {
		return nil, fmt.Errorf("payment %s: %w", paymentID, domain.ErrForbidden)
	}
	if p.Status != domain.PaymentPending {
		return nil, fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentAlreadyPaid)
	}

	now := s.now()
	d := &dialog{PaymentDialog: PaymentDialog{
		ID:        uuid.NewString(),
		ParentID:  parent.ID,
		PaymentID: p.ID,
		StudentID: p.StudentID,
		Amount:    p.Amount,
		Method:    domain.MethodBankTransfer,
		State:     DialogSelectingMethod,
		OpenedAt:  now,
		UpdatedAt: now,
	}}

	s.mu.Lock()
	s.dialogs[d.ID] = d
	s.mu.Unlock()

	return d.snapshot(), nil
}

// Get returns the current snapshot of a dialog
func (s *PaymentService) Get(_ context.Context, parent *domain.Identity, dialogID string) (*PaymentDialog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.lookup(parent, dialogID)
	if err != nil {
		return nil, err
	}
	return d.snapshot(), nil
}

// SelectMethod sets the single selected method; only allowed while selecting
func (s *PaymentService) SelectMethod(_ context.Context, parent *domain.Identity, dialogID, method string) (*PaymentDialog, error) {
	m, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.lookup(parent, dialogID)
	if err != nil {
		return nil, err
	}
	if err := d.open(); err != nil {
		return nil, err
	}

	d.Method = m
	d.UpdatedAt = s.now()
	return d.snapshot(), nil
}

// Submit runs the simulated payment for the selected method. While one
// submission is in flight, for this dialog or any other dialog on the same
// payment, further submits fail fast with ErrSubmissionInFlight.
func (s *PaymentService) Submit(ctx context.Context, parent *domain.Identity, dialogID string) (*PaymentDialog, error) {
	s.mu.Lock()
	d, err := s.lookup(parent, dialogID)
	if err == nil {
		err = d.open()
	}
	if err == nil {
		if _, busy := s.submitting[d.PaymentID]; busy {
			err = fmt.Errorf("payment %s: %w", d.PaymentID, domain.ErrSubmissionInFlight)
		}
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	runCtx, cancel := s.submissionContext(ctx)
	d.State = DialogSubmitting
	d.LastError = ""
	d.UpdatedAt = s.now()
	d.cancel = cancel
	s.submitting[d.PaymentID] = d.ID
	method := d.Method
	paymentID := d.PaymentID
	s.mu.Unlock()

	// the slot is held, so no other dialog can settle the payment past this check
	err = s.ensurePending(ctx, paymentID)
	if err == nil {
		err = s.processor.Process(runCtx, Operation{Kind: OpPayment, Ref: paymentID})
	}
	if err == nil {
		err = s.store.Payments.MarkPaid(ctx, paymentID, method, s.now())
	}
	cancel()

	s.mu.Lock()
	delete(s.submitting, paymentID)
	d.cancel = nil
	d.UpdatedAt = s.now()

	if errors.Is(err, domain.ErrPaymentAlreadyPaid) {
		d.State = DialogSelectingMethod
		d.Closed = true
		d.LastError = domain.Message(err)
		s.mu.Unlock()
		return nil, err
	}
	if err != nil {
		d.State = DialogSelectingMethod
		d.LastError = domain.Message(domain.ErrSubmissionFailed)
		failed := d.snapshot()
		failed.State = DialogFailed
		s.mu.Unlock()

		log.Printf("❌ Payment %s via %s failed: %v", paymentID, method, err)
		return failed, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}

	d.State = DialogSucceeded
	d.Closed = true
	done := d.snapshot()
	s.mu.Unlock()

	log.Printf("✅ Payment %s settled via %s: %s", paymentID, method, format.Money(done.Amount))
	if s.notifier != nil {
		paid := &domain.Payment{ID: paymentID, StudentID: done.StudentID, Amount: done.Amount, Method: method}
		s.notifier.NotifyPaymentSucceeded(done.ParentID, paid)
	}
	return done, nil
}

// Cancel aborts an in-flight submission, which then resolves back into
// SELECTING_METHOD, or closes a dialog that is still selecting.
func (s *PaymentService) Cancel(_ context.Context, parent *domain.Identity, dialogID string) (*PaymentDialog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.lookup(parent, dialogID)
	if err != nil {
		return nil, err
	}
	if d.Closed {
		return nil, fmt.Errorf("dialog %s: %w", dialogID, domain.ErrDialogClosed)
	}

	switch d.State {
	case DialogSubmitting:
		if d.cancel != nil {
			d.cancel()
		}
	default:
		d.Closed = true
		d.UpdatedAt = s.now()
	}
	return d.snapshot(), nil
}

// ReapIdle drops closed dialogs and closes selecting dialogs untouched for
// longer than olderThan. Submitting dialogs are never reaped.
func (s *PaymentService) ReapIdle(olderThan time.Duration) int {
	cutoff := s.now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for id, d := range s.dialogs {
		if d.State == DialogSubmitting {
			continue
		}
		if d.Closed || d.UpdatedAt.Before(cutoff) {
			delete(s.dialogs, id)
			reaped++
		}
	}
	return reaped
}

// submissionContext bounds one run by the configured timeout; Cancel stops it early
func (s *PaymentService) submissionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *PaymentService) ensurePending(ctx context.Context, paymentID string) error {
	p, err := s.store.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if p.Status != domain.PaymentPending {
		return fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentAlreadyPaid)
	}
	return nil
}

// lookup must be called with s.mu held
func (s *PaymentService) lookup(parent *domain.Identity, dialogID string) (*dialog, error) {
	if parent == nil || parent.Role != domain.RoleParent {
		return nil, fmt.Errorf("payment dialog: %w", domain.ErrForbidden)
	}
	d, ok := s.dialogs[dialogID]
	if !ok {
		return nil, fmt.Errorf("dialog %s: %w", dialogID, domain.ErrNotFound)
	}
	if d.ParentID != parent.ID {
		return nil, fmt.Errorf("dialog %s: %w", dialogID, domain.ErrForbidden)
	}
	return d, nil
}

func (d *dialog) open() error {
	if d.Closed {
		return fmt.Errorf("dialog %s: %w", d.ID, domain.ErrDialogClosed)
	}
	if d.State == DialogSubmitting {
		return fmt.Errorf("dialog %s: %w", d.ID, domain.ErrSubmissionInFlight)
	}
	return nil
}

func (d *dialog) snapshot() *PaymentDialog {
	cp := d.PaymentDialog
	return &cp
}

func studentIDs(students []*domain.Student) []string {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}
