package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reward-engine/calendar"
	"github.com/warp/reward-engine/reward"
	"github.com/warp/reward-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func appendDay(t *testing.T, s *sqlite.Store, userID reward.UserID, day calendar.Day) {
	t.Helper()
	err := s.Mutate(context.Background(), userID, func(rewards []reward.Reward) ([]reward.Reward, error) {
		return append(rewards, reward.New(day)), nil
	})
	require.NoError(t, err)
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_AppendAndLoad_InsertionOrder(t *testing.T) {
	// GIVEN: Three days appended out of calendar order across two mutations
	// WHEN: Loading the collection
	// THEN: Rewards come back in insertion order, not date order

	s := newTestStore(t)
	wed := calendar.NewDay(2022, time.February, 9)

	appendDay(t, s, "1", wed)
	appendDay(t, s, "1", wed.AddDays(-3)) // Sunday
	appendDay(t, s, "1", wed.AddDays(-2)) // Monday

	rewards, err := s.Load(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, rewards, 3)

	assert.Equal(t, "2022-02-09", rewards[0].Day().String())
	assert.Equal(t, "2022-02-06", rewards[1].Day().String())
	assert.Equal(t, "2022-02-07", rewards[2].Day().String())
}

func TestStore_LoadUnknownUser_EmptyNotError(t *testing.T) {
	s := newTestStore(t)

	rewards, err := s.Load(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, rewards)
}

func TestStore_MutateError_NothingPersisted(t *testing.T) {
	s := newTestStore(t)
	day := calendar.NewDay(2022, time.February, 6)
	appendDay(t, s, "1", day)

	boom := errors.New("boom")
	err := s.Mutate(context.Background(), "1", func(rewards []reward.Reward) ([]reward.Reward, error) {
		rewards = append(rewards, reward.New(day.AddDays(1)))
		return rewards, boom
	})
	assert.ErrorIs(t, err, boom)

	rewards, err := s.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, rewards, 1)
}

func TestStore_UpdateRedeemedAt_InPlace(t *testing.T) {
	// GIVEN: Three stored rewards
	// WHEN: Setting RedeemedAt on the middle one
	// THEN: Order preserved, only the middle row changed

	s := newTestStore(t)
	ctx := context.Background()
	sunday := calendar.NewDay(2022, time.February, 6)
	for i := 0; i < 3; i++ {
		appendDay(t, s, "1", sunday.AddDays(i))
	}

	redeemedAt := time.Date(2022, time.February, 7, 12, 0, 0, 0, time.UTC)
	err := s.Mutate(ctx, "1", func(rewards []reward.Reward) ([]reward.Reward, error) {
		rewards[1].RedeemedAt = &redeemedAt
		return rewards, nil
	})
	require.NoError(t, err)

	rewards, err := s.Load(ctx, "1")
	require.NoError(t, err)
	require.Len(t, rewards, 3)

	assert.Nil(t, rewards[0].RedeemedAt)
	require.NotNil(t, rewards[1].RedeemedAt)
	assert.True(t, rewards[1].RedeemedAt.Equal(redeemedAt))
	assert.Nil(t, rewards[2].RedeemedAt)
}

func TestStore_DayUniqueness_Backstop(t *testing.T) {
	// The engine never appends a duplicate day, but the unique index must
	// reject one anyway if a buggy mutation tries.
	s := newTestStore(t)
	day := calendar.NewDay(2022, time.February, 6)

	err := s.Mutate(context.Background(), "1", func(rewards []reward.Reward) ([]reward.Reward, error) {
		rewards = append(rewards, reward.New(day))
		rewards = append(rewards, reward.New(day))
		return rewards, nil
	})
	assert.Error(t, err)
}

// =============================================================================
// ENGINE OVER SQLITE
// =============================================================================

func TestService_FullLifecycleOverSQLite(t *testing.T) {
	// GIVEN: The engine running on the SQLite store
	// WHEN: Populating a week and redeeming Thursday
	// THEN: Same observable behavior as the memory store

	s := newTestStore(t)
	now := time.Date(2022, time.February, 10, 12, 0, 0, 0, time.UTC)
	svc := reward.NewService(s, nil).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, svc.EnsureWeekPopulated(ctx, "1", now))

	rewards, err := svc.WeekFor(ctx, "1", now)
	require.NoError(t, err)
	require.Len(t, rewards, 7)

	redeemed, err := svc.Redeem(ctx, "1", now)
	require.NoError(t, err)
	require.NotNil(t, redeemed.RedeemedAt)
	assert.True(t, redeemed.RedeemedAt.Equal(now))

	_, err = svc.Redeem(ctx, "1", now)
	assert.ErrorIs(t, err, reward.ErrAlreadyRedeemed)
}
