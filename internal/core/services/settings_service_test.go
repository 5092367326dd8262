package services

import (
	"context"
	"errors"
	"testing"

	"tahfiz-portal/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProfile(t *testing.T) {
	env := newTestEnv(t, Instant)
	ctx := context.Background()

	updated, err := env.settings.SaveProfile(ctx, env.teacher, ProfileInput{Name: "Ustaz Ahmad Zaki", Email: "zaki@tahfiz.my"})
	require.NoError(t, err)
	assert.Equal(t, "Ustaz Ahmad Zaki", updated.Name)

	_, err = env.settings.SaveProfile(ctx, env.teacher, ProfileInput{Name: "", Email: "bad"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = env.settings.SaveProfile(ctx, nil, ProfileInput{Name: "x", Email: "x@y.z"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestSaveProfileProcessorFailure(t *testing.T) {
	fail := ProcessorFunc(func(context.Context, Operation) error { return errors.New("offline") })
	env := newTestEnv(t, fail)
	ctx := context.Background()

	_, err := env.settings.SaveProfile(ctx, env.parent, ProfileInput{Name: "Ali", Email: "ali@x.my"})
	assert.True(t, errors.Is(err, domain.ErrSubmissionFailed))

	parent, err := env.store.Identities.GetByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, "Encik Ali", parent.Name)
}

func TestSaveSchoolConfig(t *testing.T) {
	env := newTestEnv(t, Instant)
	ctx := context.Background()

	cfg, err := env.settings.SchoolConfig(ctx)
	require.NoError(t, err)
	cfg.Rates.PackagePrice = decimal.NewFromInt(180)

	_, err = env.settings.SaveSchoolConfig(ctx, env.teacher, *cfg)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	saved, err := env.settings.SaveSchoolConfig(ctx, env.admin, *cfg)
	require.NoError(t, err)
	assert.Equal(t, "180", saved.Rates.PackagePrice.String())

	bad := *cfg
	bad.Rates.PerPage = decimal.NewFromInt(-1)
	_, err = env.settings.SaveSchoolConfig(ctx, env.admin, bad)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	bad = *cfg
	bad.Name = ""
	_, err = env.settings.SaveSchoolConfig(ctx, env.admin, bad)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	cfg, err = env.settings.SchoolConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "180", cfg.Rates.PackagePrice.String())
}
