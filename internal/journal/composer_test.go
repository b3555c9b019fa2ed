package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

func TestComposer_SubmitEmptyEntry(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	c := f.session.Composer()

	c.SetSymbol(domain.SymbolEURUSD)
	entry, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, f.entries.inserts, 1)
	p := f.entries.inserts[0]
	assert.Equal(t, domain.SymbolEURUSD, p.Symbol)
	assert.Equal(t, domain.MustParseDate("2024-03-01"), p.CreatedAt)
	require.Len(t, p.Lists, len(domain.ListFields))
	for _, field := range domain.ListFields {
		assert.NotNil(t, p.Lists[field], field)
		assert.Empty(t, p.Lists[field], field)
	}

	assert.False(t, entry.Saved)
	assert.NotEmpty(t, entry.ID)

	snap := f.session.Snapshot()
	assert.Equal(t, entry.ID, snap.FocusedEntryID)
	assert.Equal(t, FocusReady, snap.FocusState)
	assert.Equal(t, []string{entry.ID}, f.prefs.selectionWrites())
	assert.Equal(t, []string{entry.ID}, entryIDs(snap.Entries))
}

func TestComposer_SubmitCarriesLists(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	c := f.session.Composer()

	c.SetSymbol(domain.SymbolXAUUSD)
	require.NoError(t, c.AddItem(domain.FieldConfluences, "  liquidity sweep "))
	require.NoError(t, c.SetStaging(domain.FieldConfluences, "fvg"))
	require.NoError(t, c.AddStaged(domain.FieldConfluences))
	require.NoError(t, c.AddItem(domain.FieldMoods, "calm"))

	entry, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"liquidity sweep", "fvg"}, entry.List(domain.FieldConfluences))
	assert.Equal(t, []string{"calm"}, entry.List(domain.FieldMoods))
	assert.Empty(t, entry.List(domain.FieldObservations))

	snap := f.session.Snapshot()
	assert.Empty(t, snap.Composer.Symbol)
	for _, field := range domain.ListFields {
		assert.Empty(t, snap.Composer.Lists[field], field)
		assert.Empty(t, snap.Composer.Staging[field], field)
	}
}

func TestComposer_AddItem(t *testing.T) {
	f := newFixture(t)
	c := f.session.Composer()

	require.NoError(t, c.SetStaging(domain.FieldNewsEvents, "CPI"))
	err := c.AddItem(domain.FieldNewsEvents, "   ")
	assert.True(t, IsValidation(err))

	snap := f.session.Snapshot()
	assert.Empty(t, snap.Composer.Lists[domain.FieldNewsEvents])
	assert.Equal(t, "CPI", snap.Composer.Staging[domain.FieldNewsEvents])

	require.NoError(t, c.AddStaged(domain.FieldNewsEvents))
	snap = f.session.Snapshot()
	assert.Equal(t, []string{"CPI"}, snap.Composer.Lists[domain.FieldNewsEvents])
	assert.Empty(t, snap.Composer.Staging[domain.FieldNewsEvents])

	err = c.AddItem(domain.ListField("notes"), "x")
	assert.True(t, IsValidation(err))
}

func TestComposer_RemoveItem(t *testing.T) {
	f := newFixture(t)
	c := f.session.Composer()
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, c.AddItem(domain.FieldObservations, s))
	}

	require.NoError(t, c.RemoveItem(domain.FieldObservations, 1))
	assert.Equal(t, []string{"a", "c"}, f.session.Snapshot().Composer.Lists[domain.FieldObservations])

	assert.True(t, IsValidation(c.RemoveItem(domain.FieldObservations, 2)))
	assert.True(t, IsValidation(c.RemoveItem(domain.FieldObservations, -1)))
}

func TestComposer_SubmitRequiresSymbol(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	c := f.session.Composer()
	require.NoError(t, c.AddItem(domain.FieldMoods, "anxious"))

	_, err := c.Submit(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "symbol", ve.Field)
	assert.Empty(t, f.entries.inserts)

	c.SetSymbol("DOGEUSD")
	_, err = c.Submit(context.Background())
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.entries.inserts)

	assert.Equal(t, []string{"anxious"}, f.session.Snapshot().Composer.Lists[domain.FieldMoods])
}

func TestComposer_SubmitFailurePreservesDraft(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	c := f.session.Composer()
	c.SetSymbol(domain.SymbolGBPUSD)
	require.NoError(t, c.AddItem(domain.FieldEntryModels, "turtle soup"))
	require.NoError(t, c.SetStaging(domain.FieldMoods, "half typed"))
	f.entries.setErr(&f.entries.failInsert, errors.New("unavailable"))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, storage.IsRepositoryError(err))

	snap := f.session.Snapshot()
	assert.Equal(t, domain.SymbolGBPUSD, snap.Composer.Symbol)
	assert.Equal(t, []string{"turtle soup"}, snap.Composer.Lists[domain.FieldEntryModels])
	assert.Equal(t, "half typed", snap.Composer.Staging[domain.FieldMoods])
	assert.Empty(t, snap.FocusedEntryID)
	assert.Empty(t, f.prefs.selectionWrites())

	f.entries.setErr(&f.entries.failInsert, nil)
	entry, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"turtle soup"}, entry.List(domain.FieldEntryModels))
}

func TestComposer_SubmitOnOtherSelectedDate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "b", day2, false, nil)
	f.start(t)
	require.NoError(t, f.session.SetDate(context.Background(), day2))

	c := f.session.Composer()
	c.SetSymbol(domain.SymbolBTCUSD)
	entry, err := c.Submit(context.Background())
	require.NoError(t, err)

	snap := f.session.Snapshot()
	assert.Equal(t, entry.ID, snap.FocusedEntryID)
	assert.Equal(t, day2, snap.SelectedDate)
	assert.Equal(t, []string{"b"}, entryIDs(snap.Entries))
}
