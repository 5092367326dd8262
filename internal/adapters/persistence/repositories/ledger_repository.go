package repositories

import (
	"context"
	"fmt"
	"time"

	"tahfiz-portal/internal/adapters/persistence/models"
	"tahfiz-portal/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Sessions
// ============================================================

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new teaching session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]domain.Session, error) {
	var rows []models.Session
	if err := r.db.WithContext(ctx).Where("ustaz_id = ?", teacherID).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSessions(rows), nil
}

func (r *sessionRepository) ListByStudents(ctx context.Context, studentIDs []string) ([]domain.Session, error) {
	if len(studentIDs) == 0 {
		return []domain.Session{}, nil
	}
	var rows []models.Session
	if err := r.db.WithContext(ctx).Where("student_id IN ?", studentIDs).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSessions(rows), nil
}

func (r *sessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	var rows []models.Session
	if err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSessions(rows), nil
}

func toDomainSessions(rows []models.Session) []domain.Session {
	out := make([]domain.Session, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

// ============================================================
// Payments
// ============================================================

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var m models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "payment %s", id)
	}
	p := m.ToDomain()
	return &p, nil
}

func (r *paymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	var rows []models.Payment
	if err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(rows), nil
}

func (r *paymentRepository) ListByStudents(ctx context.Context, studentIDs []string) ([]domain.Payment, error) {
	if len(studentIDs) == 0 {
		return []domain.Payment{}, nil
	}
	var rows []models.Payment
	if err := r.db.WithContext(ctx).Where("student_id IN ?", studentIDs).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(rows), nil
}

// MarkPaid only touches rows that are still PENDING
func (r *paymentRepository) MarkPaid(ctx context.Context, id string, method domain.PaymentMethod, paidAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", id, string(domain.PaymentPending)).
			Updates(map[string]interface{}{
				"status":  string(domain.PaymentPaid),
				"method":  string(method),
				"paid_at": paidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}

		var existing models.Payment
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			return notFound(err, "payment %s", id)
		}
		return fmt.Errorf("payment %s: %w", id, domain.ErrPaymentAlreadyPaid)
	})
}

func toDomainPayments(rows []models.Payment) []domain.Payment {
	out := make([]domain.Payment, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

// ============================================================
// Withdrawals
// ============================================================

type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	var m models.Withdrawal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "withdrawal %s", id)
	}
	w := m.ToDomain()
	return &w, nil
}

func (r *withdrawalRepository) List(ctx context.Context) ([]domain.Withdrawal, error) {
	var rows []models.Withdrawal
	if err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainWithdrawals(rows), nil
}

func (r *withdrawalRepository) ListByTeacher(ctx context.Context, teacherID string) ([]domain.Withdrawal, error) {
	var rows []models.Withdrawal
	if err := r.db.WithContext(ctx).Where("ustaz_id = ?", teacherID).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainWithdrawals(rows), nil
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	m := models.WithdrawalFromDomain(*w)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create withdrawal %s: %w", w.ID, err)
	}
	return nil
}

// Resolve only touches rows that are still PENDING
func (r *withdrawalRepository) Resolve(ctx context.Context, id string, status domain.WithdrawalStatus, resolvedBy, note string, at time.Time) (*domain.Withdrawal, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("resolve to %s: %w", status, domain.ErrInvalidInput)
	}

	var result *domain.Withdrawal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", id, string(domain.WithdrawalPending)).
			Updates(map[string]interface{}{
				"status":      string(status),
				"resolved_by": resolvedBy,
				"resolved_at": at,
				"note":        note,
			})
		if res.Error != nil {
			return res.Error
		}

		var m models.Withdrawal
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return notFound(err, "withdrawal %s", id)
		}
		w := m.ToDomain()
		result = &w
		if res.RowsAffected == 0 {
			return fmt.Errorf("withdrawal %s is %s: %w", id, w.Status, domain.ErrAlreadyResolved)
		}
		return nil
	})
	return result, err
}

func toDomainWithdrawals(rows []models.Withdrawal) []domain.Withdrawal {
	out := make([]domain.Withdrawal, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

// ============================================================
// School config
// ============================================================

type schoolConfigRepository struct {
	db *gorm.DB
}

// NewSchoolConfigRepository creates a new school config repository
func NewSchoolConfigRepository(db *gorm.DB) SchoolConfigRepository {
	return &schoolConfigRepository{db: db}
}

func (r *schoolConfigRepository) Get(ctx context.Context) (*domain.SchoolConfig, error) {
	var m models.SchoolConfig
	if err := r.db.WithContext(ctx).Where("id = ?", models.SchoolConfigID).First(&m).Error; err != nil {
		return nil, notFound(err, "school config")
	}
	return m.ToDomain(), nil
}

func (r *schoolConfigRepository) Save(ctx context.Context, cfg *domain.SchoolConfig) error {
	m := models.SchoolConfigFromDomain(*cfg)
	return r.db.WithContext(ctx).Save(&m).Error
}
