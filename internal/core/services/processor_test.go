package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedProcessorWaits(t *testing.T) {
	p := NewSimulatedProcessor(30 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Process(context.Background(), Operation{Kind: OpPayment}))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSimulatedProcessorHonoursCancel(t *testing.T) {
	p := NewSimulatedProcessor(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := p.Process(ctx, Operation{Kind: OpWithdrawal})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestInstantProcessor(t *testing.T) {
	assert.NoError(t, Instant.Process(context.Background(), Operation{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Instant.Process(ctx, Operation{}))
}

func TestNotificationInboxIsBounded(t *testing.T) {
	n := NewNotificationService(repositories.NewMemoryStore().Identities)
	n.limit = 3

	for _, title := range []string{"a", "b", "c", "d"} {
		n.Notify("u1", title, "")
	}

	inbox := n.Inbox("u1")
	require.Len(t, inbox, 3)
	assert.Equal(t, "d", inbox[0].Title)
	assert.Equal(t, "b", inbox[2].Title)
	assert.Empty(t, n.Inbox("u2"))
}
