// Package store provides reward.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/reward-engine/reward"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps reward collections in a process-wide map. Collections are
// created lazily on first write and never evicted. The single mutex also
// satisfies the per-user serialization contract of reward.Store.
type Memory struct {
	mu          sync.RWMutex
	collections map[reward.UserID][]reward.Reward
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[reward.UserID][]reward.Reward),
	}
}

// Load returns a copy of the user's collection in insertion order.
func (m *Memory) Load(_ context.Context, userID reward.UserID) ([]reward.Reward, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rewards := m.collections[userID]
	out := make([]reward.Reward, len(rewards))
	copy(out, rewards)
	return out, nil
}

// Mutate runs fn under the write lock. On error nothing is persisted; the
// closure only ever sees a copy.
func (m *Memory) Mutate(_ context.Context, userID reward.UserID, fn func([]reward.Reward) ([]reward.Reward, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.collections[userID]
	working := make([]reward.Reward, len(current))
	copy(working, current)

	updated, err := fn(working)
	if err != nil {
		return err
	}

	m.collections[userID] = updated
	return nil
}

var _ reward.Store = (*Memory)(nil)
