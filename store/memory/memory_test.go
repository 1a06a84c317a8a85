package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/scenario"
	"github.com/warp/stir-engine/store/memory"
)

var _ scenario.Store = (*memory.Memory)(nil)

func TestMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	// GIVEN: the default scenario seeded
	require.NoError(t, scenario.Seed(ctx, store))

	// WHEN: a second scenario is saved
	s := scenario.Default()
	s.ID = scenario.NewID()
	s.Name = "Alt"
	require.NoError(t, store.Put(ctx, s))

	// THEN: both list, ordered by name
	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alt", all[0].Name)
	assert.Equal(t, scenario.DefaultID, all[1].ID)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, scenario.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, s.ID), scenario.ErrNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, scenario.Seed(ctx, store))

	got, err := store.Get(ctx, scenario.DefaultID)
	require.NoError(t, err)
	got.Meetings[0].HikeBps = 100

	again, err := store.Get(ctx, scenario.DefaultID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Meetings[0].HikeBps)
}

func TestMemory_SeedKeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	edited := scenario.Default()
	edited.BaseSOFR = 5.0
	require.NoError(t, store.Put(ctx, edited))
	require.NoError(t, scenario.Seed(ctx, store))

	got, err := store.Get(ctx, scenario.DefaultID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.BaseSOFR)
}

func TestMemory_HolidayCache(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	cached, err := store.CachedHolidays(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	require.NoError(t, store.CacheHolidays(ctx, curve.FallbackHolidays()))
	cached, err = store.CachedHolidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, curve.FallbackHolidays(), cached)

	require.NoError(t, store.Reset(ctx))
	cached, _ = store.CachedHolidays(ctx)
	assert.Nil(t, cached)
}
