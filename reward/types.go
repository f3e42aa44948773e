/*
Package reward implements the daily-reward lifecycle engine.

PURPOSE:
  Each user is granted one reward per calendar day of a Sunday-to-Saturday
  week, and each reward can be redeemed exactly once inside its 24-hour
  window. This package owns the lifecycle: materializing a week's records
  without duplication, answering week queries, and the redemption state
  machine with its guard conditions.

KEY CONCEPTS IN THIS FILE (types.go):
  - UserID: Opaque user identifier (authn/authz is out of scope)
  - Reward: One claimable slot for one calendar day for one user

INVARIANTS:
  1. At most one Reward per (user, UTC calendar day). Day-equality, not
     instant-equality: two timestamps on the same day collapse to one record,
     first write wins.
  2. A user's collection is insertion-ordered and append-only, except for the
     in-place update of a single record's RedeemedAt.
  3. Redemption is one-way and happens at most once.

SEE ALSO:
  - service.go: The lifecycle engine
  - store.go: Persistence contract
  - errors.go: Failure taxonomy
*/
package reward

import (
	"time"

	"github.com/warp/reward-engine/calendar"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// UserID is an opaque user identifier. The engine attaches no meaning to it
// beyond keying collections.
type UserID string

// =============================================================================
// REWARD - One claimable slot for one calendar day
// =============================================================================

// Reward is a single per-day slot. AvailableAt is always UTC midnight and
// acts as the natural key within a user's collection; ExpiresAt is exactly
// AvailableAt + 24h. RedeemedAt is nil while pending.
type Reward struct {
	AvailableAt time.Time
	ExpiresAt   time.Time
	RedeemedAt  *time.Time
}

// Window is the length of a reward's redemption window.
const Window = 24 * time.Hour

// New creates a pending reward for the given calendar day.
func New(day calendar.Day) Reward {
	availableAt := day.Time()
	return Reward{
		AvailableAt: availableAt,
		ExpiresAt:   availableAt.Add(Window),
	}
}

// Day returns the calendar day the reward belongs to.
func (r Reward) Day() calendar.Day { return calendar.DayOf(r.AvailableAt) }

// Redeemed reports whether the reward has been redeemed.
func (r Reward) Redeemed() bool { return r.RedeemedAt != nil }
