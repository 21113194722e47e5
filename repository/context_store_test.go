package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finplan-agent/domain"
)

func TestContextStoreMemoryRoundTrip(t *testing.T) {
	store := NewContextStoreMemory()
	ctx := context.Background()

	// First contact yields a fresh empty context.
	cc, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, cc)
	assert.Empty(t, cc.LastMessage)

	cc.AverageIncome = decimal.NewFromInt(50000)
	cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
	cc.LastMessage = "help me save"
	require.NoError(t, store.Save(ctx, "u1", cc))

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.AverageIncome.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, domain.PendingSavingsAmount, got.Pending.Kind)
	assert.Equal(t, "help me save", got.LastMessage)

	// Contexts are isolated per user.
	other, err := store.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other.LastMessage)
}
