/*
store.go - Persistence contract for saved scenarios

PURPOSE:
  Saved scenarios are the only entities that outlive a request. Curves
  and instruments are always recomputed from a scenario, never stored.

KEY INTERFACES:
  Store: Scenario CRUD keyed by scenario id

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite-backed, used by the server
  - store/memory/memory.go: In-memory, for tests and throwaway runs

EXAMPLE:
  s := scenario.Default()
  s.ID = scenario.NewID()
  err := store.Put(ctx, s)

  got, err := store.Get(ctx, s.ID)
  if errors.Is(err, scenario.ErrNotFound) {
      ...
  }

SEE ALSO:
  - errors.go: Sentinel errors returned by stores
  - defaults.go: Default scenario and presets
*/
package scenario

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warp/stir-engine/curve"
)

// =============================================================================
// STORE - Scenario persistence
// =============================================================================

// Store persists scenarios. Implementations return copies, so callers
// may edit what they get back.
type Store interface {
	// List returns every stored scenario ordered by name, then id.
	List(ctx context.Context) ([]curve.Scenario, error)

	// Get returns ErrNotFound when no scenario has the id.
	Get(ctx context.Context, id string) (curve.Scenario, error)

	// Put inserts or replaces the scenario with s.ID.
	Put(ctx context.Context, s curve.Scenario) error

	// Delete returns ErrNotFound when no scenario has the id.
	Delete(ctx context.Context, id string) error

	// Reset removes every scenario.
	Reset(ctx context.Context) error
}

// NewID returns a fresh identifier for a saved scenario.
func NewID() string {
	return uuid.NewString()
}

// Seed stores the default scenario unless a scenario with its id
// already exists.
func Seed(ctx context.Context, store Store) error {
	_, err := store.Get(ctx, DefaultID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return store.Put(ctx, Default())
}
