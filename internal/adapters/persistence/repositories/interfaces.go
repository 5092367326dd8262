package repositories

import (
	"context"
	"time"

	"tahfiz-portal/internal/core/domain"
)

// IdentityRepository defines identity repository interface
type IdentityRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	FindFirstByRole(ctx context.Context, role domain.Role) (*domain.Identity, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error)
	UpdateProfile(ctx context.Context, id, name, email string) error
}

// StudentRepository defines student repository interface
type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	ListByParent(ctx context.Context, parentID string) ([]*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
}

// SessionRepository defines teaching session repository interface
type SessionRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]domain.Session, error)
	ListByStudents(ctx context.Context, studentIDs []string) ([]domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	ListByStudents(ctx context.Context, studentIDs []string) ([]domain.Payment, error)
	// MarkPaid moves a PENDING payment to PAID; any other status yields
	// domain.ErrPaymentAlreadyPaid and leaves the record untouched.
	MarkPaid(ctx context.Context, id string, method domain.PaymentMethod, paidAt time.Time) error
}

// WithdrawalRepository defines withdrawal repository interface
type WithdrawalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Withdrawal, error)
	List(ctx context.Context) ([]domain.Withdrawal, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]domain.Withdrawal, error)
	Create(ctx context.Context, w *domain.Withdrawal) error
	// Resolve moves a PENDING withdrawal to a terminal status; a record that is
	// already terminal yields domain.ErrAlreadyResolved and is not modified.
	Resolve(ctx context.Context, id string, status domain.WithdrawalStatus, resolvedBy, note string, at time.Time) (*domain.Withdrawal, error)
}

// SchoolConfigRepository defines school configuration repository interface
type SchoolConfigRepository interface {
	Get(ctx context.Context) (*domain.SchoolConfig, error)
	Save(ctx context.Context, cfg *domain.SchoolConfig) error
}

// Fixture is the seeded record set
type Fixture struct {
	Identities   []domain.Identity
	Students     []domain.Student
	Sessions     []domain.Session
	Payments     []domain.Payment
	Withdrawals  []domain.Withdrawal
	SchoolConfig domain.SchoolConfig
}

// Store bundles every repository of one storage medium
type Store struct {
	Identities   IdentityRepository
	Students     StudentRepository
	Sessions     SessionRepository
	Payments     PaymentRepository
	Withdrawals  WithdrawalRepository
	SchoolConfig SchoolConfigRepository

	seed func(ctx context.Context, f *Fixture) error
}

// Seed loads the fixture into the store
func (s *Store) Seed(ctx context.Context, f *Fixture) error {
	if s.seed == nil {
		return nil
	}
	return s.seed(ctx, f)
}
