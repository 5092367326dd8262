package models

import (
	"time"

	"tahfiz-portal/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Identities & Students
// ============================================================

// Identity represents identities table
type Identity struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Role      string    `gorm:"size:20;index;not null" json:"role"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Email     string    `gorm:"size:150" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Identity) TableName() string {
	return "identities"
}

func (m *Identity) ToDomain() *domain.Identity {
	return &domain.Identity{
		ID:    m.ID,
		Role:  domain.Role(m.Role),
		Name:  m.Name,
		Email: m.Email,
	}
}

func IdentityFromDomain(i domain.Identity) Identity {
	return Identity{ID: i.ID, Role: string(i.Role), Name: i.Name, Email: i.Email}
}

// Student represents students table
type Student struct {
	ID       string   `gorm:"primaryKey;size:64" json:"id"`
	ParentID string   `gorm:"size:64;index;not null" json:"parent_id"`
	Name     string   `gorm:"size:150" json:"name"`
	Parent   Identity `gorm:"foreignKey:ParentID" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

func (m *Student) ToDomain() *domain.Student {
	return &domain.Student{ID: m.ID, ParentID: m.ParentID, Name: m.Name}
}

func StudentFromDomain(s domain.Student) Student {
	return Student{ID: s.ID, ParentID: s.ParentID, Name: s.Name}
}

// ============================================================
// Ledger records
// ============================================================

// Session represents teaching_sessions table
type Session struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	UstazID   string          `gorm:"size:64;index;not null" json:"ustaz_id"`
	StudentID string          `gorm:"size:64;index;not null" json:"student_id"`
	Fee       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fee"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Topic     string          `gorm:"size:255" json:"topic"`
}

func (Session) TableName() string {
	return "teaching_sessions"
}

func (m *Session) ToDomain() domain.Session {
	return domain.Session{
		ID:        m.ID,
		UstazID:   m.UstazID,
		StudentID: m.StudentID,
		Fee:       m.Fee,
		Date:      m.Date,
		Topic:     m.Topic,
	}
}

func SessionFromDomain(s domain.Session) Session {
	return Session{ID: s.ID, UstazID: s.UstazID, StudentID: s.StudentID, Fee: s.Fee, Date: s.Date, Topic: s.Topic}
}

// Payment represents payments table
type Payment struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	StudentID string          `gorm:"size:64;index;not null" json:"student_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Method    string          `gorm:"size:20" json:"method"`
	Status    string          `gorm:"size:20;index;default:'PENDING'" json:"status"`
	PaidAt    *time.Time      `json:"paid_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (m *Payment) ToDomain() domain.Payment {
	return domain.Payment{
		ID:        m.ID,
		StudentID: m.StudentID,
		Amount:    m.Amount,
		Date:      m.Date,
		Method:    domain.PaymentMethod(m.Method),
		Status:    domain.PaymentStatus(m.Status),
		PaidAt:    m.PaidAt,
	}
}

func PaymentFromDomain(p domain.Payment) Payment {
	return Payment{
		ID:        p.ID,
		StudentID: p.StudentID,
		Amount:    p.Amount,
		Date:      p.Date,
		Method:    string(p.Method),
		Status:    string(p.Status),
		PaidAt:    p.PaidAt,
	}
}

// Withdrawal represents withdrawals table
type Withdrawal struct {
	ID         string          `gorm:"primaryKey;size:64" json:"id"`
	UstazID    string          `gorm:"size:64;index;not null" json:"ustaz_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date       time.Time       `gorm:"not null" json:"date"`
	Bank       string          `gorm:"size:50" json:"bank"`
	Status     string          `gorm:"size:20;index;default:'PENDING'" json:"status"`
	ResolvedBy string          `gorm:"size:64" json:"resolved_by"`
	ResolvedAt *time.Time      `json:"resolved_at"`
	Note       string          `gorm:"type:text" json:"note"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

func (m *Withdrawal) ToDomain() domain.Withdrawal {
	return domain.Withdrawal{
		ID:         m.ID,
		UstazID:    m.UstazID,
		Amount:     m.Amount,
		Date:       m.Date,
		Bank:       m.Bank,
		Status:     domain.WithdrawalStatus(m.Status),
		ResolvedBy: m.ResolvedBy,
		ResolvedAt: m.ResolvedAt,
		Note:       m.Note,
	}
}

func WithdrawalFromDomain(w domain.Withdrawal) Withdrawal {
	return Withdrawal{
		ID:         w.ID,
		UstazID:    w.UstazID,
		Amount:     w.Amount,
		Date:       w.Date,
		Bank:       w.Bank,
		Status:     string(w.Status),
		ResolvedBy: w.ResolvedBy,
		ResolvedAt: w.ResolvedAt,
		Note:       w.Note,
	}
}

// ============================================================
// School config (singleton row)
// ============================================================

// SchoolConfigID is the primary key of the only school_configs row
const SchoolConfigID = 1

// SchoolConfig represents school_configs table
type SchoolConfig struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:150;not null" json:"name"`
	PerSession   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"per_session"`
	PerPage      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"per_page"`
	PackagePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"package_price"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SchoolConfig) TableName() string {
	return "school_configs"
}

func (m *SchoolConfig) ToDomain() *domain.SchoolConfig {
	return &domain.SchoolConfig{
		Name: m.Name,
		Rates: domain.Rates{
			PerSession:   m.PerSession,
			PerPage:      m.PerPage,
			PackagePrice: m.PackagePrice,
		},
	}
}

func SchoolConfigFromDomain(c domain.SchoolConfig) SchoolConfig {
	return SchoolConfig{
		ID:           SchoolConfigID,
		Name:         c.Name,
		PerSession:   c.Rates.PerSession,
		PerPage:      c.Rates.PerPage,
		PackagePrice: c.Rates.PackagePrice,
	}
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Identity{},
		&Student{},
		&Session{},
		&Payment{},
		&Withdrawal{},
		&SchoolConfig{},
	)
}
