/*
Package sqlite provides a SQLite-backed implementation of reward.Store.

PURPOSE:
  Durable storage for per-user reward collections. The same patterns apply
  to PostgreSQL in production - only minor SQL dialect differences.

SCHEMA:
  rewards:
    id           TEXT  UUID, row identity only
    user_id      TEXT  Collection owner
    seq          INT   Insertion order within the collection
    available_at TEXT  RFC3339, always UTC midnight
    expires_at   TEXT  RFC3339, available_at + 24h
    redeemed_at  TEXT  RFC3339 or NULL while pending

  The UNIQUE(user_id, DATE(available_at)) index backs the one-reward-per-day
  invariant at the database level; the engine enforces it first, the index
  is the backstop.

SERIALIZATION:
  The DSN sets _txlock=immediate, so every Mutate transaction takes the
  write lock before its first read. Combined with WAL mode this serializes
  read-modify-write cycles across the whole database, which satisfies
  (exceeds) the per-user contract of reward.Store.

MUTATION DIFFING:
  Legal mutations are append-new-day and set-redeemed-at only (see
  reward/store.go), so Mutate diffs the closure's output against the loaded
  rows by calendar day: unseen days are inserted, changed redeemed_at
  values are updated in place. Nothing is ever deleted.

USAGE:
  store, err := sqlite.New("./data/rewards.db")   // or ":memory:"
  if err != nil { log.Fatal(err) }
  defer store.Close()

SEE ALSO:
  - reward/store.go: Interface and serialization contract
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/reward-engine/reward"
)

// Store implements reward.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ reward.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps transaction semantics simple and is plenty
	// for this workload; ":memory:" additionally requires it so all queries
	// see the same database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rewards (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		available_at TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		redeemed_at TEXT,
		created_at TEXT NOT NULL
	);

	-- Backstop for the one-reward-per-day invariant
	CREATE UNIQUE INDEX IF NOT EXISTS idx_rewards_user_day
		ON rewards(user_id, DATE(available_at));

	-- Collection loads in insertion order (hot path)
	CREATE INDEX IF NOT EXISTS idx_rewards_user_seq
		ON rewards(user_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Load returns the user's collection in insertion order.
func (s *Store) Load(ctx context.Context, userID reward.UserID) ([]reward.Reward, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT available_at, expires_at, redeemed_at
		FROM rewards
		WHERE user_id = ?
		ORDER BY seq ASC`,
		string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load rewards: %w", err)
	}

	return scanRewards(rows)
}

// Mutate runs fn against the user's collection inside an immediate
// transaction and persists the difference.
func (s *Store) Mutate(ctx context.Context, userID reward.UserID, fn func([]reward.Reward) ([]reward.Reward, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT available_at, expires_at, redeemed_at
		FROM rewards
		WHERE user_id = ?
		ORDER BY seq ASC`,
		string(userID))
	if err != nil {
		return fmt.Errorf("failed to load rewards: %w", err)
	}
	current, err := scanRewards(rows)
	if err != nil {
		return err
	}

	// fn gets its own copy; the diff below needs the original slice.
	working := make([]reward.Reward, len(current))
	copy(working, current)

	updated, err := fn(working)
	if err != nil {
		return err
	}

	if err := persistDiff(ctx, tx, userID, current, updated); err != nil {
		return err
	}

	return tx.Commit()
}

// persistDiff writes the closure's changes: new days are inserted with the
// next seq values, existing days with a changed redeemed_at are updated.
func persistDiff(ctx context.Context, tx *sql.Tx, userID reward.UserID, current, updated []reward.Reward) error {
	existing := make(map[string]reward.Reward, len(current))
	for _, r := range current {
		existing[r.Day().String()] = r
	}

	seq := len(current)
	for _, r := range updated {
		prev, ok := existing[r.Day().String()]
		if !ok {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO rewards (id, user_id, seq, available_at, expires_at, redeemed_at, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(),
				string(userID),
				seq,
				r.AvailableAt.UTC().Format(time.RFC3339),
				r.ExpiresAt.UTC().Format(time.RFC3339),
				nullableTime(r.RedeemedAt),
				time.Now().UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("failed to insert reward: %w", err)
			}
			seq++
			continue
		}

		if !sameRedemption(prev.RedeemedAt, r.RedeemedAt) {
			_, err := tx.ExecContext(ctx, `
				UPDATE rewards SET redeemed_at = ?
				WHERE user_id = ? AND DATE(available_at) = DATE(?)`,
				nullableTime(r.RedeemedAt),
				string(userID),
				r.AvailableAt.UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("failed to update reward: %w", err)
			}
		}
	}

	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanRewards(rows *sql.Rows) ([]reward.Reward, error) {
	defer rows.Close()

	rewards := []reward.Reward{}
	for rows.Next() {
		var availableAt, expiresAt string
		var redeemedAt sql.NullString

		if err := rows.Scan(&availableAt, &expiresAt, &redeemedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}

		var r reward.Reward
		var err error
		if r.AvailableAt, err = time.Parse(time.RFC3339, availableAt); err != nil {
			return nil, fmt.Errorf("corrupt available_at: %w", err)
		}
		if r.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
			return nil, fmt.Errorf("corrupt expires_at: %w", err)
		}
		if redeemedAt.Valid {
			t, err := time.Parse(time.RFC3339, redeemedAt.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt redeemed_at: %w", err)
			}
			r.RedeemedAt = &t
		}

		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func sameRedemption(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}
