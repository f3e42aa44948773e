/*
service.go - The reward lifecycle engine

PURPOSE:
  Implements the three operations of the system:
  1. EnsureWeekPopulated: materialize the 7 reward records of a week,
     create-if-absent, never duplicating a day
  2. WeekFor: the user's rewards filtered to the week of a reference date
  3. Redeem: the one-way pending -> redeemed transition with its guards

POPULATION SHORT-CIRCUIT:
  Population walks the week Sunday through Saturday. When the walk reaches
  the calendar day of the user's FIRST stored reward, the remaining days are
  assumed present and the walk stops. For a user whose history starts on
  this week's Sunday that makes repopulation free; for a user whose history
  starts mid-week it stops the walk at that day. This mirrors the long-
  standing production behavior and is pinned by test - see
  TestEnsureWeekPopulated_ShortCircuit in service_test.go before changing it.

REDEMPTION GUARDS (checked in order, first match wins):
  1. User has no records            -> NoRecordError
  2. No record on the target day    -> DateNotFoundError
  3. AvailableAt is in the future   -> FutureRedemptionError
  4. ExpiresAt is in the past       -> ExpiredError
  5. Already redeemed               -> AlreadyRedeemedError
  6. Otherwise set RedeemedAt = now and persist in place

  Guards are evaluated inside the store's per-user mutation, so a failed
  redemption never changes state and concurrent redemptions cannot both win.

SEE ALSO:
  - calendar/calendar.go: Week and day arithmetic
  - store.go: Persistence contract and serialization guarantees
*/
package reward

import (
	"context"
	"errors"
	"time"

	"github.com/warp/reward-engine/calendar"
	"github.com/warp/reward-engine/metrics"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service is the reward lifecycle engine. Construct with NewService.
type Service struct {
	store     Store
	collector metrics.Collector
	now       func() time.Time
}

// NewService creates the engine on top of a Store. A nil collector disables
// instrumentation.
func NewService(store Store, collector metrics.Collector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		store:     store,
		collector: collector,
		now:       time.Now,
	}
}

// WithClock overrides the time source. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// =============================================================================
// WEEK POPULATION
// =============================================================================

// EnsureWeekPopulated materializes reward records for each of the 7 days of
// the week containing ref, in day order. Existing days are never duplicated;
// a user with no collection gets one created. See the package comment for
// the short-circuit semantics.
func (s *Service) EnsureWeekPopulated(ctx context.Context, userID UserID, ref time.Time) error {
	week := calendar.WeekOf(ref)

	inserted := 0
	err := s.store.Mutate(ctx, userID, func(rewards []Reward) ([]Reward, error) {
		for _, day := range week.Days() {
			if len(rewards) == 0 {
				rewards = append(rewards, New(day))
				inserted++
				continue
			}

			// Short-circuit: the walk reached the day of the user's first
			// stored reward, so the rest of the week is assumed present.
			if rewards[0].Day().Equal(day) {
				break
			}

			if !containsDay(rewards, day) {
				rewards = append(rewards, New(day))
				inserted++
			}
		}
		return rewards, nil
	})
	if err != nil {
		return err
	}

	s.collector.RecordPopulated(inserted)
	return nil
}

// containsDay reports whether the collection already holds the given day.
func containsDay(rewards []Reward, day calendar.Day) bool {
	for _, r := range rewards {
		if r.Day().Equal(day) {
			return true
		}
	}
	return false
}

// =============================================================================
// WEEK QUERY
// =============================================================================

// WeekFor returns the user's rewards whose day falls within the week
// containing ref, in insertion order. A user with no collection yields an
// empty slice. Read-only.
func (s *Service) WeekFor(ctx context.Context, userID UserID, ref time.Time) ([]Reward, error) {
	week := calendar.WeekOf(ref)

	rewards, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]Reward, 0, 7)
	for _, r := range rewards {
		if week.Contains(r.Day()) {
			result = append(result, r)
		}
	}
	return result, nil
}

// =============================================================================
// REDEMPTION
// =============================================================================

// Redeem applies the pending -> redeemed transition to the user's reward on
// target's calendar day. Target is compared by day; any time-of-day matches.
// Returns the updated reward on success.
func (s *Service) Redeem(ctx context.Context, userID UserID, target time.Time) (Reward, error) {
	targetDay := calendar.DayOf(target)

	var redeemed Reward
	err := s.store.Mutate(ctx, userID, func(rewards []Reward) ([]Reward, error) {
		if len(rewards) == 0 {
			return nil, &NoRecordError{UserID: userID}
		}

		idx := -1
		for i, r := range rewards {
			if r.Day().Equal(targetDay) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &DateNotFoundError{UserID: userID, Day: targetDay}
		}

		now := s.now().UTC()
		r := rewards[idx]

		switch {
		case r.AvailableAt.After(now):
			return nil, &FutureRedemptionError{AvailableAt: r.AvailableAt}
		case r.ExpiresAt.Before(now):
			return nil, &ExpiredError{ExpiredAt: r.ExpiresAt}
		case r.Redeemed():
			return nil, &AlreadyRedeemedError{RedeemedAt: *r.RedeemedAt}
		}

		redeemedAt := now
		r.RedeemedAt = &redeemedAt
		rewards[idx] = r
		redeemed = r
		return rewards, nil
	})
	if err != nil {
		s.collector.RecordRedeemFailure(failureReason(err))
		return Reward{}, err
	}

	s.collector.RecordRedeemed()
	return redeemed, nil
}

// failureReason maps a redemption error to its metrics label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoRecord):
		return "no_record"
	case errors.Is(err, ErrDateNotFound):
		return "date_not_found"
	case errors.Is(err, ErrFutureRedemption):
		return "future"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrAlreadyRedeemed):
		return "already_redeemed"
	}
	return "store"
}
