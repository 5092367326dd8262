package views

import (
	"context"
	"testing"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*Router, *repositories.Store) {
	t.Helper()
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), config.DemoFixture(time.Now())))

	ledgerSvc := services.NewLedgerService(store)
	notifier := services.NewNotificationService(store.Identities)
	return NewRouter(Deps{
		Store:     store,
		Ledger:    ledgerSvc,
		Dashboard: services.NewDashboardService(store, ledgerSvc),
		Payments:  services.NewPaymentService(store, services.Instant, notifier, 0),
		Settings:  services.NewSettingsService(store, services.Instant),
	}), store
}

func identity(t *testing.T, store *repositories.Store, id string) *domain.Identity {
	t.Helper()
	i, err := store.Identities.GetByID(context.Background(), id)
	require.NoError(t, err)
	return i
}

func TestResolve_NoIdentityGetsLanding(t *testing.T) {
	r, _ := newTestRouter(t)

	vm, err := r.Resolve(context.Background(), nil, ViewPayment)
	require.NoError(t, err)
	assert.Equal(t, ViewLanding, vm.Name)

	data, ok := vm.Data.(LandingData)
	require.True(t, ok)
	require.Len(t, data.Cards, 3)
	assert.Equal(t, domain.RoleAdmin, data.Cards[0].Role)
	assert.Equal(t, domain.RoleParent, data.Cards[2].Role)
}

func TestResolve_UnknownViewGetsPlaceholder(t *testing.T) {
	r, store := newTestRouter(t)

	vm, err := r.Resolve(context.Background(), identity(t, store, "u2"), "students")
	require.NoError(t, err)
	assert.Equal(t, ViewPlaceholder, vm.Name)
	assert.Equal(t, "students", vm.Requested)
	assert.Equal(t, domain.RoleTeacher, vm.Role)
	assert.Equal(t, "Halaman sedang dibangunkan", vm.Title)
}

func TestResolve_EmptyViewIsDashboard(t *testing.T) {
	r, store := newTestRouter(t)

	for _, id := range []string{"u1", "u2", "u4"} {
		vm, err := r.Resolve(context.Background(), identity(t, store, id), "")
		require.NoError(t, err)
		assert.Equal(t, ViewDashboard, vm.Name, id)
	}
}

func TestResolve_DispatchesOnRole(t *testing.T) {
	r, store := newTestRouter(t)
	ctx := context.Background()

	admin, err := r.Resolve(ctx, identity(t, store, "u1"), ViewDashboard)
	require.NoError(t, err)
	_, ok := admin.Data.(AdminDashboardView)
	assert.True(t, ok)

	teacher, err := r.Resolve(ctx, identity(t, store, "u2"), ViewDashboard)
	require.NoError(t, err)
	td, ok := teacher.Data.(TeacherDashboardView)
	require.True(t, ok)
	assert.Equal(t, "RM 65.00", td.Ledger.CurrentBalanceText)
	assert.Len(t, td.RecentSessions, 3)

	parent, err := r.Resolve(ctx, identity(t, store, "u4"), ViewDashboard)
	require.NoError(t, err)
	pd, ok := parent.Data.(ParentDashboardView)
	require.True(t, ok)
	assert.Len(t, pd.Children, 2)
	assert.Equal(t, 1, pd.OutstandingCount)
}

func TestResolve_UnknownRole(t *testing.T) {
	r, _ := newTestRouter(t)

	_, err := r.Resolve(context.Background(), &domain.Identity{ID: "x", Role: "GUEST"}, ViewDashboard)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestSettings_SchoolSectionForAdminOnly(t *testing.T) {
	r, store := newTestRouter(t)
	ctx := context.Background()

	for _, tc := range []struct {
		id     string
		school bool
	}{
		{"u1", true}, {"u2", false}, {"u4", false},
	} {
		vm, err := r.Resolve(ctx, identity(t, store, tc.id), ViewSettings)
		require.NoError(t, err)
		data, ok := vm.Data.(SettingsData)
		require.True(t, ok)

		keys := make([]string, 0, len(data.Sections))
		for _, s := range data.Sections {
			keys = append(keys, s.Key)
		}
		if tc.school {
			assert.Contains(t, keys, "school", tc.id)
			require.NotNil(t, data.School)
			assert.Equal(t, "Maahad Tahfiz Al-Furqan", data.School.Name)
		} else {
			assert.NotContains(t, keys, "school", tc.id)
			assert.Nil(t, data.School)
		}
	}
}

func TestTeacherPayment(t *testing.T) {
	r, store := newTestRouter(t)

	vm, err := r.Resolve(context.Background(), identity(t, store, "u2"), ViewPayment)
	require.NoError(t, err)
	assert.Equal(t, "Dompet & Pendapatan", vm.Title)

	data, ok := vm.Data.(TeacherPaymentView)
	require.True(t, ok)
	assert.Equal(t, "RM 65.00", data.Ledger.CurrentBalanceText)
	assert.Equal(t, "RM 20.00", data.Ledger.PendingWithdrawalText)
	assert.True(t, data.CanRequestWithdrawal)
	assert.Equal(t, domain.Banks, data.Banks)

	// 2 withdrawals + 3 sessions
	require.Len(t, data.History, 5)
	for i := 1; i < len(data.History); i++ {
		assert.False(t, data.History[i].Date.After(data.History[i-1].Date))
	}
	for _, e := range data.History {
		switch e.Kind {
		case EntryWithdrawal:
			assert.Contains(t, e.Description, "Pindahan ke ")
			assert.Contains(t, e.AmountText, "- RM ")
		case EntryEarning:
			assert.Contains(t, e.Description, "Sesi: ")
			assert.Equal(t, "+ RM 45.00", e.AmountText)
			assert.Equal(t, "SELESAI", e.Status)
		default:
			t.Fatalf("unexpected entry kind %q", e.Kind)
		}
	}
}

func TestAdminPayment_GroupsCarryNames(t *testing.T) {
	r, store := newTestRouter(t)

	vm, err := r.Resolve(context.Background(), identity(t, store, "u1"), ViewPayment)
	require.NoError(t, err)

	data, ok := vm.Data.(AdminPaymentView)
	require.True(t, ok)
	assert.Len(t, data.Income.Payments, 2)
	assert.Equal(t, 2, data.Payouts.PendingCount)
	assert.Equal(t, "RM 50.00", data.Payouts.TotalPendingText)

	byTeacher := map[string]PayoutGroup{}
	for _, g := range data.Payouts.Groups {
		byTeacher[g.TeacherID] = g
	}
	require.Contains(t, byTeacher, "u2")
	assert.Equal(t, "Ustaz Ahmad", byTeacher["u2"].TeacherName)
	assert.Equal(t, "Ustazah Aminah", byTeacher["u3"].TeacherName)
	for _, w := range byTeacher["u2"].Withdrawals {
		assert.Equal(t, w.Status == domain.WithdrawalPending, w.Actionable)
	}
}

func TestParentPayment(t *testing.T) {
	r, store := newTestRouter(t)

	vm, err := r.Resolve(context.Background(), identity(t, store, "u4"), ViewPayment)
	require.NoError(t, err)

	data, ok := vm.Data.(ParentPaymentView)
	require.True(t, ok)
	assert.Len(t, data.Children, 2)
	assert.Len(t, data.Outstanding, 1)
	assert.Len(t, data.History, 1)
	assert.Equal(t, "-", data.Outstanding[0].MethodText)
	assert.Equal(t, "FPX / Bank", data.History[0].MethodText)
	assert.Len(t, data.Methods, len(domain.PaymentMethods))
}
