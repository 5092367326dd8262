package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role represents the role an identity logs in with
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleParent  Role = "PARENT"
)

// Roles lists every role in landing order
var Roles = []Role{RoleAdmin, RoleTeacher, RoleParent}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent:
		return true
	}
	return false
}

// ParseRole parses a role name. USTAZ is accepted as TEACHER.
func ParseRole(s string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "USTAZ" {
		return RoleTeacher, nil
	}
	r := Role(v)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Identity is a logged-in person. Role never changes after login.
type Identity struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Student belongs to exactly one parent identity
type Student struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
}

// Session is one teaching record. Immutable once seeded.
type Session struct {
	ID        string          `json:"id"`
	UstazID   string          `json:"ustaz_id"`
	StudentID string          `json:"student_id"`
	Fee       decimal.Decimal `json:"fee"`
	Date      time.Time       `json:"date"`
	Topic     string          `json:"topic"`
}

// PaymentStatus is PENDING or PAID
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// PaymentMethod is how a parent settles a fee
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodQR           PaymentMethod = "QR"
	MethodCard         PaymentMethod = "CARD"
	MethodCash         PaymentMethod = "CASH"
)

// PaymentMethods lists the selectable methods
var PaymentMethods = []PaymentMethod{MethodBankTransfer, MethodQR, MethodCard, MethodCash}

// ParsePaymentMethod parses a method name. FPX is accepted as BANK_TRANSFER.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "FPX" {
		return MethodBankTransfer, nil
	}
	for _, m := range PaymentMethods {
		if PaymentMethod(v) == m {
			return m, nil
		}
	}
	return "", ErrInvalidPaymentMethod
}

// Payment is a fee owed or settled for a student
type Payment struct {
	ID        string          `json:"id"`
	StudentID string          `json:"student_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Method    PaymentMethod   `json:"method,omitempty"`
	Status    PaymentStatus   `json:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// WithdrawalStatus tracks a payout request
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalRejected  WithdrawalStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalRejected
}

// Withdrawal is a teacher payout request
type Withdrawal struct {
	ID         string           `json:"id"`
	UstazID    string           `json:"ustaz_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Date       time.Time        `json:"date"`
	Bank       string           `json:"bank,omitempty"`
	Status     WithdrawalStatus `json:"status"`
	ResolvedBy string           `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"`
	Note       string           `json:"note,omitempty"`
}

// Banks a teacher may withdraw to
var Banks = []string{"Maybank", "CIMB Bank", "Bank Islam"}

// Rates are the school's fee rates
type Rates struct {
	PerSession   decimal.Decimal `json:"per_session" validate:"gte=0"`
	PerPage      decimal.Decimal `json:"per_page" validate:"gte=0"`
	PackagePrice decimal.Decimal `json:"package_price" validate:"gte=0"`
}

// SchoolConfig is the singleton school configuration
type SchoolConfig struct {
	Name  string `json:"name" validate:"required,max=150"`
	Rates Rates  `json:"rates"`
}
