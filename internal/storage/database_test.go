package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *Database, id, species string, at time.Time) {
	t.Helper()
	require.NoError(t, db.SaveCatch(&CatchEntry{
		UUID:     id,
		CaughtAt: at,
		Species:  species,
		WeightKg: 1.5,
		SpotName: "Lacul Surduc",
	}))
}

func TestSaveAndGetCatch(t *testing.T) {
	db := newTestDatabase(t)
	at := time.Date(2024, time.May, 4, 6, 30, 0, 0, time.UTC)
	seed(t, db, "a1", "Crap", at)

	got, err := db.GetCatch("a1")
	require.NoError(t, err)
	require.Equal(t, "Crap", got.Species)
	require.True(t, got.CaughtAt.Equal(at))
	require.NotZero(t, got.ID)
}

func TestGetCatchNotFound(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.GetCatch("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCatchesFilters(t *testing.T) {
	db := newTestDatabase(t)
	base := time.Date(2024, time.May, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		species := "Crap"
		if i%2 == 1 {
			species = "Știucă"
		}
		seed(t, db, fmt.Sprintf("id-%d", i), species, base.AddDate(0, 0, i))
	}

	all, err := db.ListCatches(CatchFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	require.Equal(t, "id-4", all[0].UUID, "newest first")

	ranged, err := db.ListCatches(CatchFilter{From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 3)})
	require.NoError(t, err)
	require.Len(t, ranged, 2)

	carp, err := db.ListCatches(CatchFilter{Species: "crap"})
	require.NoError(t, err)
	require.Len(t, carp, 3)

	limited, err := db.ListCatches(CatchFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)

	count, err := db.CountCatches()
	require.NoError(t, err)
	require.EqualValues(t, 5, count)
}

func TestDeleteCatch(t *testing.T) {
	db := newTestDatabase(t)
	seed(t, db, "gone", "Șalău", time.Now())

	require.NoError(t, db.DeleteCatch("gone"))
	require.ErrorIs(t, db.DeleteCatch("gone"), ErrNotFound)

	_, err := db.GetCatch("gone")
	require.ErrorIs(t, err, ErrNotFound)
}
