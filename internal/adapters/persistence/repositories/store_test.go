package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tahfiz-portal/internal/adapters/persistence/models"
	"tahfiz-portal/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testFixture() *Fixture {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC) }
	fee := decimal.NewFromInt(45)
	return &Fixture{
		Identities: []domain.Identity{
			{ID: "u1", Role: domain.RoleAdmin, Name: "Admin", Email: "admin@example.com"},
			{ID: "u2", Role: domain.RoleTeacher, Name: "Ustaz Ahmad", Email: "ahmad@example.com"},
			{ID: "u3", Role: domain.RoleTeacher, Name: "Ustazah Aminah", Email: "aminah@example.com"},
			{ID: "u4", Role: domain.RoleParent, Name: "Encik Ali", Email: "ali@example.com"},
		},
		Students: []domain.Student{
			{ID: "st1", ParentID: "u4", Name: "Adam"},
			{ID: "st2", ParentID: "u4", Name: "Hawa"},
		},
		Sessions: []domain.Session{
			{ID: "s1", UstazID: "u2", StudentID: "st1", Fee: fee, Date: day(1)},
			{ID: "s2", UstazID: "u2", StudentID: "st2", Fee: fee, Date: day(2)},
			{ID: "s3", UstazID: "u3", StudentID: "st1", Fee: fee, Date: day(3)},
		},
		Payments: []domain.Payment{
			{ID: "p1", StudentID: "st1", Amount: fee, Date: day(1), Method: domain.MethodBankTransfer, Status: domain.PaymentPaid},
			{ID: "p2", StudentID: "st2", Amount: fee, Date: day(2), Status: domain.PaymentPending},
		},
		Withdrawals: []domain.Withdrawal{
			{ID: "w1", UstazID: "u2", Amount: decimal.NewFromInt(50), Date: day(4), Bank: "Maybank", Status: domain.WithdrawalCompleted},
			{ID: "w2", UstazID: "u2", Amount: decimal.NewFromInt(20), Date: day(5), Bank: "CIMB Bank", Status: domain.WithdrawalPending},
		},
		SchoolConfig: domain.SchoolConfig{
			Name: "Maahad Tahfiz Demo",
			Rates: domain.Rates{
				PerSession:   fee,
				PerPage:      decimal.NewFromInt(5),
				PackagePrice: decimal.NewFromInt(150),
			},
		},
	}
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// stores runs fn against every storage medium
func stores(t *testing.T, fn func(t *testing.T, s *Store)) {
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Seed(context.Background(), testFixture()))
		fn(t, s)
	})
	t.Run("gorm", func(t *testing.T) {
		s := NewGormStore(newSQLiteDB(t))
		require.NoError(t, s.Seed(context.Background(), testFixture()))
		fn(t, s)
	})
}

func TestIdentityLookups(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()

		teacher, err := s.Identities.FindFirstByRole(ctx, domain.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, "u2", teacher.ID)

		teachers, err := s.Identities.ListByRole(ctx, domain.RoleTeacher)
		require.NoError(t, err)
		assert.Len(t, teachers, 2)

		_, err = s.Identities.GetByID(ctx, "nope")
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		require.NoError(t, s.Identities.UpdateProfile(ctx, "u1", "Pentadbir", "p@example.com"))
		admin, err := s.Identities.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Pentadbir", admin.Name)

		kids, err := s.Students.ListByParent(ctx, "u4")
		require.NoError(t, err)
		assert.Len(t, kids, 2)
	})
}

func TestSessionQueries(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()

		mine, err := s.Sessions.ListByTeacher(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		byStudent, err := s.Sessions.ListByStudents(ctx, []string{"st1"})
		require.NoError(t, err)
		assert.Len(t, byStudent, 2)

		none, err := s.Sessions.ListByStudents(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestMarkPaidIsConditional(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		at := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

		require.NoError(t, s.Payments.MarkPaid(ctx, "p2", domain.MethodQR, at))
		p, err := s.Payments.GetByID(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, p.Status)
		assert.Equal(t, domain.MethodQR, p.Method)
		require.NotNil(t, p.PaidAt)

		err = s.Payments.MarkPaid(ctx, "p2", domain.MethodCard, at)
		assert.True(t, errors.Is(err, domain.ErrPaymentAlreadyPaid))
		p, err = s.Payments.GetByID(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, domain.MethodQR, p.Method)

		err = s.Payments.MarkPaid(ctx, "missing", domain.MethodQR, at)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestResolveIsConditional(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		at := time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC)

		w, err := s.Withdrawals.Resolve(ctx, "w2", domain.WithdrawalCompleted, "u1", "", at)
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalCompleted, w.Status)
		assert.Equal(t, "u1", w.ResolvedBy)

		w, err = s.Withdrawals.Resolve(ctx, "w2", domain.WithdrawalRejected, "u1", "late", at)
		assert.True(t, errors.Is(err, domain.ErrAlreadyResolved))
		require.NotNil(t, w)
		assert.Equal(t, domain.WithdrawalCompleted, w.Status)

		_, err = s.Withdrawals.Resolve(ctx, "w1", domain.WithdrawalPending, "u1", "", at)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))

		_, err = s.Withdrawals.Resolve(ctx, "missing", domain.WithdrawalRejected, "u1", "", at)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestCreateWithdrawal(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		w := &domain.Withdrawal{
			ID:      "w9",
			UstazID: "u3",
			Amount:  decimal.RequireFromString("12.50"),
			Date:    time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
			Bank:    "Bank Islam",
			Status:  domain.WithdrawalPending,
		}
		require.NoError(t, s.Withdrawals.Create(ctx, w))
		assert.Error(t, s.Withdrawals.Create(ctx, w))

		list, err := s.Withdrawals.ListByTeacher(ctx, "u3")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Amount.Equal(decimal.RequireFromString("12.5")))
	})
}

func TestSchoolConfigRoundTrip(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()

		cfg, err := s.SchoolConfig.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Maahad Tahfiz Demo", cfg.Name)

		cfg.Rates.PerPage = decimal.NewFromInt(6)
		require.NoError(t, s.SchoolConfig.Save(ctx, cfg))

		cfg, err = s.SchoolConfig.Get(ctx)
		require.NoError(t, err)
		assert.True(t, cfg.Rates.PerPage.Equal(decimal.NewFromInt(6)))
	})
}

func TestConcurrentResolveHasOneWinner(t *testing.T) {
	stores(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		at := time.Now()

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Withdrawals.Resolve(ctx, "w2", domain.WithdrawalRejected, "u1", "", at); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}

func TestSeedRejectsOrphanStudent(t *testing.T) {
	f := testFixture()
	f.Students = append(f.Students, domain.Student{ID: "st9", ParentID: "u2"})

	err := NewMemoryStore().Seed(context.Background(), f)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = NewGormStore(newSQLiteDB(t)).Seed(context.Background(), f)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGormSeedIsIdempotent(t *testing.T) {
	db := newSQLiteDB(t)
	s := NewGormStore(db)
	require.NoError(t, s.Seed(context.Background(), testFixture()))
	require.NoError(t, s.Seed(context.Background(), testFixture()))

	var n int64
	require.NoError(t, db.Model(&models.Identity{}).Count(&n).Error)
	assert.Equal(t, int64(4), n)
}
