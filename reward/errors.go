/*
errors.go - Failure taxonomy for the reward lifecycle

PURPOSE:
  All reward errors in one place. Every condition here is an expected,
  recoverable, user-facing outcome - none is fatal to the process, and none
  leaves store state partially mutated (redemption guards are read-only
  until the final success path).

ERROR CATEGORIES:
  1. Input errors      - Malformed dates from clients
  2. Not-found errors  - No collection, or no record on the target day
  3. Transition errors - Redemption attempted outside its window, or twice

USAGE:
  Sentinels work with errors.Is; structured errors carry context and
  unwrap to their sentinel:

    if errors.Is(err, reward.ErrExpired) { ... }

    var dnf *reward.DateNotFoundError
    if errors.As(err, &dnf) {
        log.Printf("no reward on %s", dnf.Day)
    }

SEE ALSO:
  - service.go: Produces these errors
  - api/handlers.go: Maps them to HTTP statuses
*/
package reward

import (
	"errors"
	"fmt"
	"time"

	"github.com/warp/reward-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when client input does not parse to a real
	// calendar date.
	ErrInvalidDate = errors.New("invalid date input")

	// ErrNoRecord is returned when a user has no reward collection at all.
	ErrNoRecord = errors.New("no reward record for user")

	// ErrDateNotFound is returned when no reward exists on the target day.
	ErrDateNotFound = errors.New("no reward on that date")

	// ErrFutureRedemption is returned when the reward is not yet available.
	ErrFutureRedemption = errors.New("reward not yet available")

	// ErrExpired is returned when the redemption window has closed.
	ErrExpired = errors.New("reward expired")

	// ErrAlreadyRedeemed is returned when the reward was redeemed before.
	ErrAlreadyRedeemed = errors.New("reward already redeemed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NoRecordError reports a user with nothing to redeem.
type NoRecordError struct {
	UserID UserID
}

func (e *NoRecordError) Error() string {
	return fmt.Sprintf("nothing to redeem for user %s", e.UserID)
}

func (e *NoRecordError) Unwrap() error { return ErrNoRecord }

// DateNotFoundError reports a redemption target day with no reward.
type DateNotFoundError struct {
	UserID UserID
	Day    calendar.Day
}

func (e *DateNotFoundError) Error() string {
	return fmt.Sprintf("no reward on %s for user %s", e.Day, e.UserID)
}

func (e *DateNotFoundError) Unwrap() error { return ErrDateNotFound }

// FutureRedemptionError reports an attempt to redeem before availability.
type FutureRedemptionError struct {
	AvailableAt time.Time
}

func (e *FutureRedemptionError) Error() string {
	return fmt.Sprintf("cannot redeem before the reward becomes available at %s",
		e.AvailableAt.Format(time.RFC3339))
}

func (e *FutureRedemptionError) Unwrap() error { return ErrFutureRedemption }

// ExpiredError reports an attempt to redeem after the window closed.
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("reward expired at %s", e.ExpiredAt.Format(time.RFC3339))
}

func (e *ExpiredError) Unwrap() error { return ErrExpired }

// AlreadyRedeemedError reports a second redemption attempt.
type AlreadyRedeemedError struct {
	RedeemedAt time.Time
}

func (e *AlreadyRedeemedError) Error() string {
	return fmt.Sprintf("reward already redeemed at %s", e.RedeemedAt.Format(time.RFC3339))
}

func (e *AlreadyRedeemedError) Unwrap() error { return ErrAlreadyRedeemed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing collection or day.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoRecord) || errors.Is(err, ErrDateNotFound)
}

// IsClientError returns true if the error is due to invalid client input or
// a redemption transition the client is not permitted to make.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrFutureRedemption) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrAlreadyRedeemed) ||
		IsNotFound(err)
}
