package views

import (
	"context"
	"time"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/format"
)

// ParentViews renders the parent surfaces
type ParentViews struct {
	baseViews
}

// ParentDashboardView is the parent dashboard
type ParentDashboardView struct {
	Children             []*domain.Student `json:"children"`
	SessionCount         int               `json:"session_count"`
	OutstandingCount     int               `json:"outstanding_count"`
	OutstandingTotalText string            `json:"outstanding_total_text"`
}

// Dashboard renders the children and what is still owed
func (v *ParentViews) Dashboard(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	d, err := v.deps.Dashboard.GetParentDashboard(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return &ViewModel{
		Name:     ViewDashboard,
		Title:    "Assalamualaikum, " + identity.Name,
		Subtitle: "Pantau perkembangan hafazan anak-anak anda.",
		Data: ParentDashboardView{
			Children:             d.Children,
			SessionCount:         d.SessionCount,
			OutstandingCount:     len(d.Outstanding),
			OutstandingTotalText: format.Money(d.OutstandingTotal),
		},
	}, nil
}

// ParentPaymentView is the fee payment page
type ParentPaymentView struct {
	Children    []*domain.Student `json:"children"`
	Sessions    []SessionRow      `json:"sessions"`
	Outstanding []PaymentRow      `json:"outstanding"`
	History     []PaymentRow      `json:"history"`
	Methods     []MethodOption    `json:"methods"`
}

// Payment renders outstanding invoices, paid history and payment methods
func (v *ParentViews) Payment(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	children, err := v.deps.Payments.Children(ctx, identity)
	if err != nil {
		return nil, err
	}
	payments, err := v.deps.Payments.ForParent(ctx, identity)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(children))
	ids := make([]string, 0, len(children))
	for _, c := range children {
		names[c.ID] = c.Name
		ids = append(ids, c.ID)
	}
	sessions, err := v.deps.Store.Sessions.ListByStudents(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := ParentPaymentView{
		Children:    children,
		Sessions:    make([]SessionRow, 0, len(sessions)),
		Outstanding: []PaymentRow{},
		History:     []PaymentRow{},
		Methods:     methodOptions(),
	}
	for _, s := range sessions {
		data.Sessions = append(data.Sessions, sessionRow(s, names[s.StudentID]))
	}
	for _, p := range payments {
		row := paymentRow(p, names[p.StudentID])
		if p.Status == domain.PaymentPending {
			data.Outstanding = append(data.Outstanding, row)
		} else {
			data.History = append(data.History, row)
		}
	}
	sortByDateDesc(data.Sessions, func(r SessionRow) time.Time { return r.Date })
	sortByDateDesc(data.History, func(r PaymentRow) time.Time { return r.Date })

	return &ViewModel{
		Name:     ViewPayment,
		Title:    "Pembayaran Yuran",
		Subtitle: "Semak invois dan buat pembayaran untuk anak-anak.",
		Data:     data,
	}, nil
}

// Settings renders the profile sections only
func (v *ParentViews) Settings(ctx context.Context, identity *domain.Identity) (*ViewModel, error) {
	return v.settings(ctx, identity, false)
}
