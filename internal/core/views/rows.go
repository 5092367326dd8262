package views

import (
	"context"
	"sort"
	"time"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/ledger"
	"tahfiz-portal/internal/pkg/format"

	"github.com/shopspring/decimal"
)

// LedgerDisplay is a teacher ledger with every amount formatted
type LedgerDisplay struct {
	ledger.TeacherLedger
	TotalEarningsText     string `json:"total_earnings_text"`
	TotalWithdrawnText    string `json:"total_withdrawn_text"`
	PendingWithdrawalText string `json:"pending_withdrawal_text"`
	CurrentBalanceText    string `json:"current_balance_text"`
	AveragePerSessionText string `json:"average_per_session_text"`
	EarningsThisMonthText string `json:"earnings_this_month_text"`
}

func displayLedger(l *ledger.TeacherLedger) LedgerDisplay {
	return LedgerDisplay{
		TeacherLedger:         *l,
		TotalEarningsText:     format.Money(l.TotalEarnings),
		TotalWithdrawnText:    format.Money(l.TotalWithdrawn),
		PendingWithdrawalText: format.Money(l.PendingWithdrawal),
		CurrentBalanceText:    format.Money(l.CurrentBalance),
		AveragePerSessionText: format.Money(l.AveragePerSession),
		EarningsThisMonthText: "+ " + format.Money(l.EarningsThisMonth),
	}
}

// PaymentRow is one fee line
type PaymentRow struct {
	ID          string               `json:"id"`
	StudentID   string               `json:"student_id"`
	StudentName string               `json:"student_name"`
	Date        time.Time            `json:"date"`
	DateText    string               `json:"date_text"`
	Method      domain.PaymentMethod `json:"method,omitempty"`
	MethodText  string               `json:"method_text"`
	Amount      decimal.Decimal      `json:"amount"`
	AmountText  string               `json:"amount_text"`
	Status      domain.PaymentStatus `json:"status"`
}

func paymentRow(p domain.Payment, studentName string) PaymentRow {
	methodText := "-"
	if p.Method != "" {
		methodText = methodLabel(p.Method)
	}
	return PaymentRow{
		ID:          p.ID,
		StudentID:   p.StudentID,
		StudentName: studentName,
		Date:        p.Date,
		DateText:    format.Date(p.Date),
		Method:      p.Method,
		MethodText:  methodText,
		Amount:      p.Amount,
		AmountText:  format.Money(p.Amount),
		Status:      p.Status,
	}
}

// WithdrawalRow is one payout request
type WithdrawalRow struct {
	ID          string                  `json:"id"`
	TeacherID   string                  `json:"teacher_id"`
	TeacherName string                  `json:"teacher_name,omitempty"`
	Date        time.Time               `json:"date"`
	DateText    string                  `json:"date_text"`
	Bank        string                  `json:"bank"`
	Amount      decimal.Decimal         `json:"amount"`
	AmountText  string                  `json:"amount_text"`
	Status      domain.WithdrawalStatus `json:"status"`
	Note        string                  `json:"note,omitempty"`
	Actionable  bool                    `json:"actionable"`
}

func withdrawalRow(w domain.Withdrawal, teacherName string) WithdrawalRow {
	return WithdrawalRow{
		ID:          w.ID,
		TeacherID:   w.UstazID,
		TeacherName: teacherName,
		Date:        w.Date,
		DateText:    format.Date(w.Date),
		Bank:        w.Bank,
		Amount:      w.Amount,
		AmountText:  format.Money(w.Amount),
		Status:      w.Status,
		Note:        w.Note,
		Actionable:  w.Status == domain.WithdrawalPending,
	}
}

// SessionRow is one teaching session
type SessionRow struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"student_id"`
	StudentName string          `json:"student_name,omitempty"`
	TeacherID   string          `json:"teacher_id"`
	Topic       string          `json:"topic"`
	Date        time.Time       `json:"date"`
	DateText    string          `json:"date_text"`
	Fee         decimal.Decimal `json:"fee"`
	FeeText     string          `json:"fee_text"`
}

func sessionRow(s domain.Session, studentName string) SessionRow {
	return SessionRow{
		ID:          s.ID,
		StudentID:   s.StudentID,
		StudentName: studentName,
		TeacherID:   s.UstazID,
		Topic:       s.Topic,
		Date:        s.Date,
		DateText:    format.Date(s.Date),
		Fee:         s.Fee,
		FeeText:     format.Money(s.Fee),
	}
}

// MethodOption is one selectable payment method
type MethodOption struct {
	Method domain.PaymentMethod `json:"method"`
	Label  string               `json:"label"`
}

var methodLabels = map[domain.PaymentMethod]string{
	domain.MethodBankTransfer: "FPX / Bank",
	domain.MethodQR:           "DuitNow QR",
	domain.MethodCard:         "Kad Kredit",
	domain.MethodCash:         "Tunai",
}

func methodLabel(m domain.PaymentMethod) string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return string(m)
}

func methodOptions() []MethodOption {
	out := make([]MethodOption, 0, len(domain.PaymentMethods))
	for _, m := range domain.PaymentMethods {
		out = append(out, MethodOption{Method: m, Label: methodLabel(m)})
	}
	return out
}

// names maps identity and student ids to display names
type names struct {
	identities map[string]string
	students   map[string]string
}

func (v *baseViews) loadNames(ctx context.Context) (*names, error) {
	n := &names{identities: map[string]string{}, students: map[string]string{}}
	for _, role := range domain.Roles {
		list, err := v.deps.Store.Identities.ListByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		for _, i := range list {
			n.identities[i.ID] = i.Name
		}
	}
	students, err := v.deps.Store.Students.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		n.students[s.ID] = s.Name
	}
	return n, nil
}

// Section is one settings panel
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// SettingsData is shared by every role; School is set for admins only
type SettingsData struct {
	Sections []Section            `json:"sections"`
	Profile  ProfileData          `json:"profile"`
	School   *domain.SchoolConfig `json:"school,omitempty"`
}

// ProfileData is the editable profile
type ProfileData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

var baseSections = []Section{
	{Key: "profile", Title: "Profil Peribadi"},
	{Key: "security", Title: "Keselamatan"},
	{Key: "notifications", Title: "Notifikasi"},
}

// baseViews holds what all role handlers share
type baseViews struct {
	deps Deps
}

func (v *baseViews) settings(ctx context.Context, identity *domain.Identity, withSchool bool) (*ViewModel, error) {
	data := SettingsData{
		Sections: append([]Section(nil), baseSections...),
		Profile:  ProfileData{Name: identity.Name, Email: identity.Email},
	}
	if withSchool {
		cfg, err := v.deps.Settings.SchoolConfig(ctx)
		if err != nil {
			return nil, err
		}
		data.School = cfg
		data.Sections = append(data.Sections, Section{Key: "school", Title: "Konfigurasi Madrasah"})
	}
	return &ViewModel{
		Name:     ViewSettings,
		Title:    "Tetapan",
		Subtitle: "Urus profil dan keutamaan akaun anda.",
		Data:     data,
	}, nil
}

func sortByDateDesc[T any](items []T, date func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[i]).After(date(items[j]))
	})
}
