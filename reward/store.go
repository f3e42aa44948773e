/*
store.go - Persistence contract for reward collections

PURPOSE:
  Defines the interface between the lifecycle engine and whatever holds the
  data. The engine never sees a database; it sees ordered per-user reward
  collections. Implementations can back this with process memory, SQLite,
  or a real server database without touching the lifecycle logic.

SERIALIZATION CONTRACT:
  Mutate is the only write path, and implementations MUST serialize Mutate
  calls for the same user: no two per-user read-modify-write cycles may
  interleave. How that is achieved is the implementation's business
  (a process mutex, an IMMEDIATE transaction, a row lock). Distinct users
  are fully independent.

MUTATION SHAPE:
  The closure receives the user's current collection in insertion order and
  returns the replacement. The only legal changes are appending new days
  and setting RedeemedAt on existing records - implementations may rely on
  this when diffing (the SQLite store does).

IMPLEMENTATIONS:
  - store/memory.go:        In-process map, for tests and dev
  - store/sqlite/sqlite.go: Durable SQLite

SEE ALSO:
  - service.go: The only consumer
*/
package reward

import "context"

// Store holds per-user reward collections.
type Store interface {
	// Load returns a copy of the user's collection in insertion order.
	// A user with no collection yields an empty slice, not an error.
	Load(ctx context.Context, userID UserID) ([]Reward, error)

	// Mutate runs fn against the user's current collection and persists the
	// returned replacement. The whole cycle is serialized per user. If fn
	// returns an error, nothing is persisted and the error is returned as-is.
	Mutate(ctx context.Context, userID UserID, fn func(rewards []Reward) ([]Reward, error)) error
}
