/*
Package calendar provides the date arithmetic for the reward engine.

PURPOSE:
  Rewards are keyed by calendar day, not by instant. This package owns the
  two operations everything else depends on:
  - Normalizing any timestamp to its UTC calendar day
  - Computing the Sunday-to-Saturday week containing a reference date

KEY CONCEPTS:
  - Day:  An immutable value pinned to UTC midnight. Two timestamps on the
          same UTC calendar date normalize to the same Day regardless of
          time-of-day. This is the mechanism that prevents duplicate reward
          records and makes redemption lookups time-of-day-independent.
  - Week: The [Sunday, Saturday] day range containing a reference date.

DESIGN PRINCIPLES:
  1. Immutability: Day.AddDays returns a new value. No mutable cursors.
  2. UTC only: All normalization is UTC. Time-zone personalization is an
     explicit non-goal of this system.
  3. Purity: No state, no side effects, no clock access.

USAGE:
  week := calendar.WeekOf(ref)
  for _, day := range week.Days() {
      availableAt := day.Time()
      ...
  }

SEE ALSO:
  - reward/service.go: Uses Week to materialize and filter rewards
*/
package calendar

import "time"

// =============================================================================
// DAY - A calendar day, pinned to UTC midnight
// =============================================================================

// Day is an immutable calendar day. The zero value is the zero time's day.
type Day struct {
	t time.Time
}

// DayOf strips the time-of-day from t, returning the Day at UTC midnight of
// t's UTC year/month/day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// NewDay constructs a Day directly from components. Out-of-range components
// are normalized by the time package (e.g. day 32 of January resolves to
// February 1), which is exactly the behavior week arithmetic relies on near
// month boundaries.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Time returns the UTC-midnight timestamp of the day.
func (d Day) Time() time.Time { return d.t }

// AddDays returns a new Day n days later (earlier for negative n).
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Before(o Day) bool        { return d.t.Before(o.t) }
func (d Day) After(o Day) bool         { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool         { return d.t.Equal(o.t) }
func (d Day) BeforeOrEqual(o Day) bool { return !d.t.After(o.t) }
func (d Day) AfterOrEqual(o Day) bool  { return !d.t.Before(o.t) }

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsZero() bool          { return d.t.IsZero() }

func (d Day) String() string { return d.t.Format("2006-01-02") }

// SameDay reports whether a and b fall on the same UTC calendar date,
// ignoring time-of-day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// =============================================================================
// WEEK - Sunday-to-Saturday range containing a reference date
// =============================================================================

// Week is the inclusive [Start, End] day range of one calendar week.
type Week struct {
	Start Day // Sunday
	End   Day // Saturday
}

// WeekOf returns the week containing t. Start is found by subtracting t's
// weekday index (Sunday = 0 ... Saturday = 6); End is the Saturday six days
// later, equivalently Monday-of-week plus five days.
func WeekOf(t time.Time) Week {
	day := DayOf(t)
	start := day.AddDays(-int(day.Weekday()))
	return Week{Start: start, End: start.AddDays(6)}
}

// Contains reports whether d falls within the week, inclusive on both ends.
func (w Week) Contains(d Day) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

// Days returns the seven days of the week in order.
func (w Week) Days() []Day {
	days := make([]Day, 0, 7)
	for d := w.Start; d.BeforeOrEqual(w.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (w Week) String() string { return "[" + w.Start.String() + ", " + w.End.String() + "]" }
