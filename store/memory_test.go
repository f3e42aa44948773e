package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reward-engine/calendar"
	"github.com/warp/reward-engine/reward"
	"github.com/warp/reward-engine/store"
)

func TestMemory_MutateError_NothingPersisted(t *testing.T) {
	// GIVEN: A collection with one reward
	// WHEN: A mutation fails after modifying its working copy
	// THEN: The stored collection is unchanged

	mem := store.NewMemory()
	ctx := context.Background()
	day := calendar.NewDay(2022, time.February, 6)

	require.NoError(t, mem.Mutate(ctx, "1", func(rewards []reward.Reward) ([]reward.Reward, error) {
		return append(rewards, reward.New(day)), nil
	}))

	boom := errors.New("boom")
	err := mem.Mutate(ctx, "1", func(rewards []reward.Reward) ([]reward.Reward, error) {
		rewards = append(rewards, reward.New(day.AddDays(1)))
		return rewards, boom
	})
	assert.ErrorIs(t, err, boom)

	rewards, err := mem.Load(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, rewards, 1)
}

func TestMemory_LoadReturnsCopy(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.Mutate(ctx, "1", func(rewards []reward.Reward) ([]reward.Reward, error) {
		return append(rewards, reward.New(calendar.NewDay(2022, time.February, 6))), nil
	}))

	loaded, err := mem.Load(ctx, "1")
	require.NoError(t, err)

	// Mutating the loaded slice must not leak into the store.
	now := time.Now()
	loaded[0].RedeemedAt = &now

	fresh, err := mem.Load(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, fresh[0].RedeemedAt)
}

func TestMemory_UsersAreIndependent(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.Mutate(ctx, "a", func(rewards []reward.Reward) ([]reward.Reward, error) {
		return append(rewards, reward.New(calendar.NewDay(2022, time.February, 6))), nil
	}))

	rewards, err := mem.Load(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, rewards)
}
