package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/zonkit/internal/config"
	"github.com/udisondev/zonkit/internal/zon"
)

func sampleZones() []zon.Bounded {
	return []zon.Bounded{
		{
			Meta: zon.Meta{Name: "Zone1", ZoneType: "ped", Flag: "1", Parent: "none"},
			Min:  r3.Vec{},
			Max:  r3.Vec{X: 10, Y: 10, Z: 10},
		},
		{
			Meta: zon.Meta{Name: "Zone2", ZoneType: "nav", Flag: "0", Parent: "Zone1"},
			Min:  r3.Vec{X: -1.5, Y: 2.25, Z: -3.125},
			Max:  r3.Vec{X: 4, Y: 5, Z: 6},
		},
		{
			Meta: zon.Meta{Name: "", ZoneType: "", Flag: "", Parent: ""},
			Min:  r3.Vec{X: 1, Y: 1, Z: 1},
			Max:  r3.Vec{X: 2, Y: 2, Z: 2},
		},
	}
}

func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	repo, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "zones.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestDigest(t *testing.T) {
	a, err := Digest(sampleZones())
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := Digest(sampleZones())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Отличие ниже точности формата не меняет дайджест.
	zones := sampleZones()
	zones[0].Max.X += 0.0001
	c, err := Digest(zones)
	require.NoError(t, err)
	assert.Equal(t, a, c)

	zones[0].Max.X += 0.01
	d, err := Digest(zones)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestSQLite_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	saved, err := repo.SaveSet(ctx, ZoneSet{Name: "ls", Zones: sampleZones(), ImportedAt: at})
	require.NoError(t, err)
	assert.True(t, saved)

	set, err := repo.LoadSet(ctx, "ls")
	require.NoError(t, err)
	assert.Equal(t, sampleZones(), set.Zones)
	assert.Equal(t, at, set.ImportedAt)

	want, err := Digest(sampleZones())
	require.NoError(t, err)
	assert.Equal(t, want, set.Digest)
}

func TestSQLite_SaveUnchangedIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	saved, err := repo.SaveSet(ctx, ZoneSet{Name: "ls", Zones: sampleZones()})
	require.NoError(t, err)
	require.True(t, saved)

	saved, err = repo.SaveSet(ctx, ZoneSet{Name: "ls", Zones: sampleZones()})
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestSQLite_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	_, err := repo.SaveSet(ctx, ZoneSet{Name: "ls", Zones: sampleZones()})
	require.NoError(t, err)

	replacement := sampleZones()[1:2]
	saved, err := repo.SaveSet(ctx, ZoneSet{Name: "ls", Zones: replacement})
	require.NoError(t, err)
	assert.True(t, saved)

	set, err := repo.LoadSet(ctx, "ls")
	require.NoError(t, err)
	assert.Equal(t, replacement, set.Zones)
}

func TestSQLite_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	_, err := repo.SaveSet(ctx, ZoneSet{Name: "vegas", Zones: sampleZones()})
	require.NoError(t, err)
	_, err = repo.SaveSet(ctx, ZoneSet{Name: "empty"})
	require.NoError(t, err)

	sets, err := repo.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "empty", sets[0].Name)
	assert.Equal(t, 0, sets[0].Zones)
	assert.Equal(t, "vegas", sets[1].Name)
	assert.Equal(t, 3, sets[1].Zones)

	require.NoError(t, repo.DeleteSet(ctx, "vegas"))
	err = repo.DeleteSet(ctx, "vegas")
	assert.True(t, errors.Is(err, ErrSetNotFound))

	_, err = repo.LoadSet(ctx, "vegas")
	assert.True(t, errors.Is(err, ErrSetNotFound))

	sets, err = repo.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "zones.db")

	repo, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	_, err = repo.SaveSet(ctx, ZoneSet{Name: "ls", Zones: sampleZones()})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	// Повторное открытие не должно повторно применять миграции.
	repo, err = NewSQLite(ctx, path)
	require.NoError(t, err)
	defer repo.Close()

	set, err := repo.LoadSet(ctx, "ls")
	require.NoError(t, err)
	assert.Len(t, set.Zones, 3)
}

func TestSaveSet_RequiresName(t *testing.T) {
	_, err := openSQLite(t).SaveSet(context.Background(), ZoneSet{Zones: sampleZones()})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	repo, err := Open(ctx, config.LibraryConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "lib.db"),
	})
	require.NoError(t, err)
	_, ok := repo.(*SQLite)
	assert.True(t, ok)
	require.NoError(t, repo.Close())

	_, err = Open(ctx, config.LibraryConfig{Driver: "mongo"})
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}
