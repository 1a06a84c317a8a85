// Package memory provides an in-memory scenario.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/scenario"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]curve.Scenario
	holidays  []curve.Holiday
}

func New() *Memory {
	return &Memory{
		scenarios: make(map[string]curve.Scenario),
	}
}

func (m *Memory) List(_ context.Context) ([]curve.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]curve.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		result = append(result, s.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) Get(_ context.Context, id string) (curve.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.scenarios[id]
	if !ok {
		return curve.Scenario{}, scenario.ErrNotFound
	}
	return s.Clone(), nil
}

// Put stores a copy so later edits by the caller do not leak in.
func (m *Memory) Put(_ context.Context, s curve.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[s.ID] = s.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[id]; !ok {
		return scenario.ErrNotFound
	}
	delete(m.scenarios, id)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = make(map[string]curve.Scenario)
	m.holidays = nil
	return nil
}

// =============================================================================
// HOLIDAY CACHE
// =============================================================================

// CachedHolidays returns the last saved set, nil when nothing is cached.
func (m *Memory) CachedHolidays(_ context.Context) ([]curve.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.holidays == nil {
		return nil, nil
	}
	return append([]curve.Holiday(nil), m.holidays...), nil
}

// CacheHolidays replaces the cached set.
func (m *Memory) CacheHolidays(_ context.Context, holidays []curve.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = append([]curve.Holiday(nil), holidays...)
	return nil
}
