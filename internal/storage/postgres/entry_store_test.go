package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

func TestEntryStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	p := domain.NewPayload(domain.SymbolEURUSD, domain.MustParseDate("2024-03-01"))
	p.Lists[domain.FieldConfluences] = []string{"liquidity sweep", "fvg"}

	created, err := store.Insert(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Saved)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, domain.SymbolEURUSD, got.Symbol)
	assert.Equal(t, "2024-03-01", got.CreatedAt.String())
	assert.False(t, got.Saved)
	assert.Equal(t, []string{"liquidity sweep", "fvg"}, got.List(domain.FieldConfluences))
	for _, f := range domain.ListFields {
		if f == domain.FieldConfluences {
			continue
		}
		assert.Equal(t, []string{}, got.List(f), f)
	}
}

func TestEntryStore_InsertRejectsEmptySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	_, err := store.Insert(ctx, domain.NewPayload("", domain.MustParseDate("2024-03-01")))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestEntryStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	_, err := store.GetByID(ctx, "0f1d2c3b-4a59-4687-8a9b-0c1d2e3f4a5b")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntryStore_ListByDate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)
	day := domain.MustParseDate("2024-03-01")

	var ids []string
	for _, sym := range []domain.Symbol{domain.SymbolNAS100, domain.SymbolXAUUSD, domain.SymbolDAX40} {
		e, err := store.Insert(ctx, domain.NewPayload(sym, day))
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	_, err := store.Insert(ctx, domain.NewPayload(domain.SymbolUS30, day.Add(1)))
	require.NoError(t, err)

	entries, err := store.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, ids[i], e.ID, "insertion order")
		assert.Equal(t, day, e.CreatedAt)
	}

	empty, err := store.ListByDate(ctx, day.Add(-30))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestEntryStore_ReadsLegacyTextLists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	// A jsonb string holding JSON text, as written by clients that stringify arrays.
	id := seedRawEntry(t, ctx, pool, "GBPUSD", "2024-03-01", `"[\"liquidity sweep\"]"`)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"liquidity sweep"}, got.List(domain.FieldConfluences))

	scalar := seedRawEntry(t, ctx, pool, "GBPUSD", "2024-03-01", `"calm"`)
	got, err = store.GetByID(ctx, scalar)
	require.NoError(t, err)
	assert.Equal(t, []string{"calm"}, got.List(domain.FieldConfluences))
}

func TestEntryStore_UpdateField(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	e, err := store.Insert(ctx, domain.NewPayload(domain.SymbolBTCUSD, domain.MustParseDate("2024-03-01")))
	require.NoError(t, err)

	require.NoError(t, store.UpdateField(ctx, e.ID, domain.FieldObservations, []string{"wick rejection"}))

	got, err := store.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wick rejection"}, got.List(domain.FieldObservations))
	assert.Equal(t, []string{}, got.List(domain.FieldMoods))

	err = store.UpdateField(ctx, e.ID, domain.ListField("saved"), []string{"x"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.UpdateField(ctx, "0f1d2c3b-4a59-4687-8a9b-0c1d2e3f4a5b", domain.FieldMoods, []string{"x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntryStore_SavedIsTerminal(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	e, err := store.Insert(ctx, domain.NewPayload(domain.SymbolETHUSD, domain.MustParseDate("2024-03-01")))
	require.NoError(t, err)

	require.NoError(t, store.MarkSaved(ctx, e.ID))

	assert.ErrorIs(t, store.MarkSaved(ctx, e.ID), storage.ErrLocked)
	assert.ErrorIs(t, store.UpdateField(ctx, e.ID, domain.FieldMoods, []string{"x"}), storage.ErrLocked)
	assert.ErrorIs(t, store.Delete(ctx, e.ID), storage.ErrLocked)

	got, err := store.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Saved)
	assert.Empty(t, got.List(domain.FieldMoods))
}

func TestEntryStore_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)

	e, err := store.Insert(ctx, domain.NewPayload(domain.SymbolJP225, domain.MustParseDate("2024-03-01")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, e.ID))

	_, err = store.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, e.ID), storage.ErrNotFound)
}

func TestEntryStore_ClosedPoolSurfacesRepositoryError(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewEntryStore(pool)
	pool.Close()

	_, err := store.ListByDate(ctx, domain.MustParseDate("2024-03-01"))
	require.Error(t, err)

	var re *storage.RepositoryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, storage.TableTrades, re.Table)
	assert.Equal(t, "list_by_date", re.Op)
}
