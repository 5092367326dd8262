package config

import (
	"context"
	"testing"
	"time"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppMode)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Latency.Payment)
	assert.Equal(t, 1500*time.Millisecond, cfg.Latency.Withdrawal)
	assert.Equal(t, time.Second, cfg.Latency.Settings)
	assert.Equal(t, 30*time.Second, cfg.Latency.SubmissionTimeout)
	assert.Equal(t, "30 8 * * *", cfg.Jobs.PayoutDigestSchedule)
	assert.Equal(t, "@every 5m", cfg.Jobs.DialogReaperSchedule)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Same(t, cfg, AppConfig)
}

func TestLoadProdPrefixes(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_JWT_SECRET", "s3cret")
	t.Setenv("PROD_DB_NAME", "tahfiz_prod")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "tahfiz_prod", cfg.Database.DBName)
	assert.Equal(t, "https://portal.tahfiz.my", cfg.GetAllowedOrigins())
}

func TestDatabasePool(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DB_MAX_IDLE_CONNS", "9")
	t.Setenv("DB_CONN_MAX_LIFETIME", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 4, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{User: "root", Password: "pw", Host: "db", Port: "3306", DBName: "tahfiz"})
	assert.Equal(t, "root:pw@tcp(db:3306)/tahfiz?charset=utf8mb4&parseTime=True&loc=UTC&timeout=5s", dsn)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("mode", func(t *testing.T) {
		t.Setenv("APP_MODE", "staging")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("pool", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("PAYMENT_LATENCY", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("negative duration", func(t *testing.T) {
		t.Setenv("SUBMISSION_TIMEOUT", "-1s")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDemoFixtureBalances(t *testing.T) {
	now := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)
	f := DemoFixture(now)

	l := ledger.ForTeacher("u2", f.Sessions, f.Withdrawals, now)
	assert.Equal(t, "135", l.TotalEarnings.String())
	assert.Equal(t, "50", l.TotalWithdrawn.String())
	assert.Equal(t, "20", l.PendingWithdrawal.String())
	assert.Equal(t, "65", l.CurrentBalance.String())
	assert.Equal(t, "90", l.EarningsThisMonth.String())

	l = ledger.ForTeacher("u3", f.Sessions, f.Withdrawals, now)
	assert.Equal(t, "60", l.CurrentBalance.String())
}

func TestSeederRunsOnMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	cfg, err := Load()
	require.NoError(t, err)

	store, err := OpenStore(cfg)
	require.NoError(t, err)
	require.NoError(t, NewSeeder(store).Run(context.Background()))

	parent, err := store.Identities.FindFirstByRole(context.Background(), domain.RoleParent)
	require.NoError(t, err)
	assert.Equal(t, "u4", parent.ID)
}
