package services

import (
	"context"
	"testing"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/domain"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	store       *repositories.Store
	ledger      *LedgerService
	notifier    *NotificationService
	withdrawals *WithdrawalService
	payments    *PaymentService
	auth        *AuthService
	settings    *SettingsService
	dashboard   *DashboardService

	admin, teacher, teacher2, parent *domain.Identity
}

func newTestEnv(t *testing.T, processor Processor) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := repositories.NewMemoryStore()
	require.NoError(t, store.Seed(ctx, config.DemoFixture(testNow)))

	clock := func() time.Time { return testNow }
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", SessionTTL: time.Hour}}

	env := &testEnv{store: store}
	env.ledger = NewLedgerService(store)
	env.ledger.now = clock
	env.notifier = NewNotificationService(store.Identities)
	env.notifier.now = clock
	env.withdrawals = NewWithdrawalService(store, env.ledger, processor, env.notifier)
	env.withdrawals.now = clock
	env.payments = NewPaymentService(store, processor, env.notifier, 0)
	env.payments.now = clock
	env.auth = NewAuthService(store.Identities, cfg)
	env.auth.now = clock
	env.settings = NewSettingsService(store, processor)
	env.dashboard = NewDashboardService(store, env.ledger)

	for _, p := range []struct {
		dst **domain.Identity
		id  string
	}{
		{&env.admin, "u1"}, {&env.teacher, "u2"}, {&env.teacher2, "u3"}, {&env.parent, "u4"},
	} {
		identity, err := store.Identities.GetByID(ctx, p.id)
		require.NoError(t, err)
		*p.dst = identity
	}
	return env
}

// gate is a processor that blocks until the test releases it
type gate struct {
	entered chan Operation
	release chan error
}

func newGate() *gate {
	return &gate{entered: make(chan Operation, 8), release: make(chan error, 8)}
}

func (g *gate) Process(ctx context.Context, op Operation) error {
	g.entered <- op
	select {
	case err := <-g.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gate) waitEntered(t *testing.T) Operation {
	t.Helper()
	select {
	case op := <-g.entered:
		return op
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not entered")
		return Operation{}
	}
}
