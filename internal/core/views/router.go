// Package views turns an identity and a requested view name into the
// view-model the presentation layer renders. Each role has its own handler;
// the Router only dispatches.
package views

import (
	"context"
	"fmt"
	"strings"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"
)

// View names
const (
	ViewLanding     = "landing"
	ViewDashboard   = "dashboard"
	ViewPayment     = "payment"
	ViewSettings    = "settings"
	ViewPlaceholder = "placeholder"
)

// ViewModel is what the router returns for every request
type ViewModel struct {
	Name      string      `json:"name"`
	Requested string      `json:"requested,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Title     string      `json:"title"`
	Subtitle  string      `json:"subtitle,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// RoleViews renders the role-specific surfaces
type RoleViews interface {
	Dashboard(ctx context.Context, identity *domain.Identity) (*ViewModel, error)
	Payment(ctx context.Context, identity *domain.Identity) (*ViewModel, error)
	Settings(ctx context.Context, identity *domain.Identity) (*ViewModel, error)
}

// Deps are the read paths the role handlers need
type Deps struct {
	Store     *repositories.Store
	Ledger    *services.LedgerService
	Dashboard *services.DashboardService
	Payments  *services.PaymentService
	Settings  *services.SettingsService
}

// Router dispatches a view request to the handler of the identity's role
type Router struct {
	handlers map[domain.Role]RoleViews
}

// NewRouter creates a router with the standard handler for each role
func NewRouter(deps Deps) *Router {
	return &Router{handlers: map[domain.Role]RoleViews{
		domain.RoleAdmin:   &AdminViews{baseViews{deps: deps}},
		domain.RoleTeacher: &TeacherViews{baseViews{deps: deps}},
		domain.RoleParent:  &ParentViews{baseViews{deps: deps}},
	}}
}

// Resolve returns the view-model for identity and view. Without an identity
// only the landing surface exists; unknown names get the placeholder.
func (r *Router) Resolve(ctx context.Context, identity *domain.Identity, view string) (*ViewModel, error) {
	if identity == nil {
		return Landing(""), nil
	}

	h, ok := r.handlers[identity.Role]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", identity.Role, domain.ErrInvalidRole)
	}

	name := strings.ToLower(strings.TrimSpace(view))
	if name == "" {
		name = ViewDashboard
	}

	var (
		vm  *ViewModel
		err error
	)
	switch name {
	case ViewDashboard:
		vm, err = h.Dashboard(ctx, identity)
	case ViewPayment:
		vm, err = h.Payment(ctx, identity)
	case ViewSettings:
		vm, err = h.Settings(ctx, identity)
	default:
		vm = Placeholder(view)
	}
	if err != nil {
		return nil, err
	}
	vm.Role = identity.Role
	return vm, nil
}

// RoleCard is one entry on the landing page
type RoleCard struct {
	Role        domain.Role `json:"role"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// LandingData lists the selectable roles and the last login failure, if any
type LandingData struct {
	Cards         []RoleCard `json:"cards"`
	StatusMessage string     `json:"status_message,omitempty"`
}

var roleCards = []RoleCard{
	{Role: domain.RoleAdmin, Title: "Pentadbir Sekolah", Description: "Urus guru, jadual dan laporan kewangan dalam satu papan pemuka."},
	{Role: domain.RoleTeacher, Title: "Ustaz / Guru", Description: "Rekod hafazan, pantau prestasi murid dan semak pendapatan anda."},
	{Role: domain.RoleParent, Title: "Ibu Bapa", Description: "Pantau perkembangan anak dan bayar yuran dengan FPX/QR dengan cepat."},
}

// Landing is the only surface reachable without an identity
func Landing(statusMessage string) *ViewModel {
	return &ViewModel{
		Name:     ViewLanding,
		Title:    "Pilih peranan untuk masuk demo",
		Subtitle: "Tiada pendaftaran diperlukan",
		Data: LandingData{
			Cards:         append([]RoleCard(nil), roleCards...),
			StatusMessage: statusMessage,
		},
	}
}

// Placeholder stands in for any view that does not exist yet
func Placeholder(requested string) *ViewModel {
	return &ViewModel{
		Name:      ViewPlaceholder,
		Requested: requested,
		Title:     "Halaman sedang dibangunkan",
		Subtitle:  "Maaf, halaman ini belum tersedia dalam versi demo.",
	}
}
