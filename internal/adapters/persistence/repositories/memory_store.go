package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tahfiz-portal/internal/core/domain"
)

// memoryDB holds every record behind one lock. Reads hand out copies so that
// callers can never mutate the store outside a repository method.
type memoryDB struct {
	mu sync.RWMutex

	identities   []domain.Identity
	students     []domain.Student
	sessions     []domain.Session
	payments     []domain.Payment
	withdrawals  []domain.Withdrawal
	schoolConfig *domain.SchoolConfig
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *Store {
	db := &memoryDB{}
	return &Store{
		Identities:   &memoryIdentityRepository{db: db},
		Students:     &memoryStudentRepository{db: db},
		Sessions:     &memorySessionRepository{db: db},
		Payments:     &memoryPaymentRepository{db: db},
		Withdrawals:  &memoryWithdrawalRepository{db: db},
		SchoolConfig: &memorySchoolConfigRepository{db: db},
		seed:         db.seed,
	}
}

func (db *memoryDB) seed(_ context.Context, f *Fixture) error {
	if f == nil {
		return nil
	}
	parents := make(map[string]bool)
	for _, id := range f.Identities {
		if !id.Role.Valid() {
			return fmt.Errorf("identity %s: %w", id.ID, domain.ErrInvalidRole)
		}
		if id.Role == domain.RoleParent {
			parents[id.ID] = true
		}
	}
	for _, s := range f.Students {
		if !parents[s.ParentID] {
			return fmt.Errorf("student %s: parent %s: %w", s.ID, s.ParentID, domain.ErrNotFound)
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.identities = append([]domain.Identity(nil), f.Identities...)
	db.students = append([]domain.Student(nil), f.Students...)
	db.sessions = append([]domain.Session(nil), f.Sessions...)
	db.payments = append([]domain.Payment(nil), f.Payments...)
	db.withdrawals = append([]domain.Withdrawal(nil), f.Withdrawals...)
	cfg := f.SchoolConfig
	db.schoolConfig = &cfg
	return nil
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ============================================================
// Identities & Students
// ============================================================

type memoryIdentityRepository struct {
	db *memoryDB
}

func (r *memoryIdentityRepository) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, i := range r.db.identities {
		if i.ID == id {
			found := i
			return &found, nil
		}
	}
	return nil, fmt.Errorf("identity %s: %w", id, domain.ErrNotFound)
}

func (r *memoryIdentityRepository) FindFirstByRole(_ context.Context, role domain.Role) (*domain.Identity, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, i := range r.db.identities {
		if i.Role == role {
			found := i
			return &found, nil
		}
	}
	return nil, fmt.Errorf("identity with role %s: %w", role, domain.ErrNotFound)
}

func (r *memoryIdentityRepository) ListByRole(_ context.Context, role domain.Role) ([]*domain.Identity, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*domain.Identity
	for _, i := range r.db.identities {
		if i.Role == role {
			found := i
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *memoryIdentityRepository) UpdateProfile(_ context.Context, id, name, email string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for idx := range r.db.identities {
		if r.db.identities[idx].ID == id {
			r.db.identities[idx].Name = name
			r.db.identities[idx].Email = email
			return nil
		}
	}
	return fmt.Errorf("identity %s: %w", id, domain.ErrNotFound)
}

type memoryStudentRepository struct {
	db *memoryDB
}

func (r *memoryStudentRepository) GetByID(_ context.Context, id string) (*domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.students {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, fmt.Errorf("student %s: %w", id, domain.ErrNotFound)
}

func (r *memoryStudentRepository) ListByParent(_ context.Context, parentID string) ([]*domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*domain.Student
	for _, s := range r.db.students {
		if s.ParentID == parentID {
			found := s
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *memoryStudentRepository) List(_ context.Context) ([]*domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.Student, 0, len(r.db.students))
	for _, s := range r.db.students {
		found := s
		out = append(out, &found)
	}
	return out, nil
}

// ============================================================
// Sessions
// ============================================================

type memorySessionRepository struct {
	db *memoryDB
}

func (r *memorySessionRepository) ListByTeacher(_ context.Context, teacherID string) ([]domain.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []domain.Session{}
	for _, s := range r.db.sessions {
		if s.UstazID == teacherID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySessionRepository) ListByStudents(_ context.Context, studentIDs []string) ([]domain.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	want := idSet(studentIDs)
	out := []domain.Session{}
	for _, s := range r.db.sessions {
		if want[s.StudentID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySessionRepository) List(_ context.Context) ([]domain.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]domain.Session{}, r.db.sessions...), nil
}

// ============================================================
// Payments
// ============================================================

type memoryPaymentRepository struct {
	db *memoryDB
}

func (r *memoryPaymentRepository) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.payments {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
}

func (r *memoryPaymentRepository) List(_ context.Context) ([]domain.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]domain.Payment{}, r.db.payments...), nil
}

func (r *memoryPaymentRepository) ListByStudents(_ context.Context, studentIDs []string) ([]domain.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	want := idSet(studentIDs)
	out := []domain.Payment{}
	for _, p := range r.db.payments {
		if want[p.StudentID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPaymentRepository) MarkPaid(_ context.Context, id string, method domain.PaymentMethod, paidAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for idx := range r.db.payments {
		p := &r.db.payments[idx]
		if p.ID != id {
			continue
		}
		if p.Status != domain.PaymentPending {
			return fmt.Errorf("payment %s: %w", id, domain.ErrPaymentAlreadyPaid)
		}
		at := paidAt
		p.Status = domain.PaymentPaid
		p.Method = method
		p.PaidAt = &at
		return nil
	}
	return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
}

// ============================================================
// Withdrawals
// ============================================================

type memoryWithdrawalRepository struct {
	db *memoryDB
}

func (r *memoryWithdrawalRepository) GetByID(_ context.Context, id string) (*domain.Withdrawal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, w := range r.db.withdrawals {
		if w.ID == id {
			found := w
			return &found, nil
		}
	}
	return nil, fmt.Errorf("withdrawal %s: %w", id, domain.ErrNotFound)
}

func (r *memoryWithdrawalRepository) List(_ context.Context) ([]domain.Withdrawal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]domain.Withdrawal{}, r.db.withdrawals...), nil
}

func (r *memoryWithdrawalRepository) ListByTeacher(_ context.Context, teacherID string) ([]domain.Withdrawal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []domain.Withdrawal{}
	for _, w := range r.db.withdrawals {
		if w.UstazID == teacherID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memoryWithdrawalRepository) Create(_ context.Context, w *domain.Withdrawal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.withdrawals {
		if existing.ID == w.ID {
			return fmt.Errorf("withdrawal %s already exists: %w", w.ID, domain.ErrInvalidInput)
		}
	}
	r.db.withdrawals = append(r.db.withdrawals, *w)
	return nil
}

func (r *memoryWithdrawalRepository) Resolve(_ context.Context, id string, status domain.WithdrawalStatus, resolvedBy, note string, at time.Time) (*domain.Withdrawal, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("resolve to %s: %w", status, domain.ErrInvalidInput)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for idx := range r.db.withdrawals {
		w := &r.db.withdrawals[idx]
		if w.ID != id {
			continue
		}
		if w.Status.IsTerminal() {
			found := *w
			return &found, fmt.Errorf("withdrawal %s is %s: %w", id, w.Status, domain.ErrAlreadyResolved)
		}
		resolvedAt := at
		w.Status = status
		w.ResolvedBy = resolvedBy
		w.ResolvedAt = &resolvedAt
		w.Note = note
		found := *w
		return &found, nil
	}
	return nil, fmt.Errorf("withdrawal %s: %w", id, domain.ErrNotFound)
}

// ============================================================
// School config
// ============================================================

type memorySchoolConfigRepository struct {
	db *memoryDB
}

func (r *memorySchoolConfigRepository) Get(_ context.Context) (*domain.SchoolConfig, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if r.db.schoolConfig == nil {
		return nil, fmt.Errorf("school config: %w", domain.ErrNotFound)
	}
	cfg := *r.db.schoolConfig
	return &cfg, nil
}

func (r *memorySchoolConfigRepository) Save(_ context.Context, cfg *domain.SchoolConfig) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	saved := *cfg
	r.db.schoolConfig = &saved
	return nil
}
