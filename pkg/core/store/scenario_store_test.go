package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"underwriting/pkg/core/config"
	"underwriting/pkg/core/logging"
	"underwriting/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }
func (c *fixedClock) advance()       { c.t = c.t.Add(time.Minute) }

func newTestStore(b Backend) (*ScenarioStore, *fixedClock) {
	clock := &fixedClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	n := 0
	s := NewScenarioStore(b,
		WithClock(clock.now),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithKeyPrefix("test:"),
	)
	return s, clock
}

func TestList_SeedsDefaultOnce(t *testing.T) {
	backend := NewMemoryBackend()
	s, _ := newTestStore(backend)
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id-1", list[0].ID)
	assert.Equal(t, models.DefaultScenarioName, list[0].Name)
	assert.Equal(t, 1, list[0].Version)

	// persisted: a second call does not mint a new default
	again, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "id-1", again[0].ID)

	_, found, _ := backend.Read(ctx, "test:scenarios")
	assert.True(t, found)
}

func TestUpdate_BumpsVersionAndTimestamp(t *testing.T) {
	s, clock := newTestStore(NewMemoryBackend())
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	sc := list[0]
	created := sc.LastModified

	clock.advance()
	sc.PurchasePrice = 400000
	sc.Version = 99 // ignored; the stored version drives the bump
	updated, err := s.Update(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.True(t, updated.LastModified.After(created))

	clock.advance()
	updated.Name = "Renamed"
	again, err := s.Update(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Version)

	got, err := s.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 400000.0, got.PurchasePrice)
	assert.True(t, got.LastModified.Equal(clock.now()))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "update replaces in place")
}

func TestUpdate_InsertsUnknownID(t *testing.T) {
	s, _ := newTestStore(NewMemoryBackend())
	ctx := context.Background()

	inserted, err := s.Update(ctx, models.Scenario{ID: "custom", Name: "Fourplex"})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted.Version)

	noID, err := s.Update(ctx, models.Scenario{Name: "Unnamed"})
	require.NoError(t, err)
	assert.NotEmpty(t, noID.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "inserting into an empty store does not seed the default")
}

func TestDuplicate(t *testing.T) {
	s, _ := newTestStore(NewMemoryBackend())
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	src := list[0]
	exit := 500000.0
	src.ExitPriceOverride = &exit
	src, err = s.Update(ctx, src)
	require.NoError(t, err)
	require.Equal(t, 2, src.Version)

	dup, err := s.Duplicate(ctx, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, 1, dup.Version)
	assert.NotEqual(t, src.Name, dup.Name)
	assert.Contains(t, dup.Name, src.Name)
	assert.Equal(t, src.PurchasePrice, dup.PurchasePrice)
	require.NotNil(t, dup.ExitPriceOverride)
	assert.Equal(t, 500000.0, *dup.ExitPriceOverride)

	stored, err := s.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, src.Name, stored.Name)
	assert.Equal(t, 2, stored.Version, "source unchanged")

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.Duplicate(ctx, "nope")
	assert.True(t, errors.Is(err, ErrScenarioNotFound))
}

func TestGetActive_Fallbacks(t *testing.T) {
	s, _ := newTestStore(NewMemoryBackend())
	ctx := context.Background()

	// empty store: default
	active, err := s.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultScenarioName, active.Name)

	second, err := s.Update(ctx, models.Scenario{ID: "second", Name: "Second"})
	require.NoError(t, err)

	require.NoError(t, s.SetActiveID(ctx, second.ID))
	id, err := s.GetActiveID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", id)

	active, err = s.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Second", active.Name)

	// stale pointer: first record
	require.NoError(t, s.SetActiveID(ctx, "deleted-long-ago"))
	active, err = s.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultScenarioName, active.Name)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(NewMemoryBackend())
	ctx := context.Background()

	_, err := s.List(ctx)
	require.NoError(t, err)
	other, err := s.Update(ctx, models.Scenario{ID: "other", Name: "Other"})
	require.NoError(t, err)
	require.NoError(t, s.SetActiveID(ctx, other.ID))

	require.NoError(t, s.Delete(ctx, other.ID))
	id, err := s.GetActiveID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id, "active pointer cleared")

	_, err = s.Get(ctx, other.ID)
	assert.ErrorIs(t, err, ErrScenarioNotFound)
	assert.ErrorIs(t, s.Delete(ctx, other.ID), ErrScenarioNotFound)
}

func TestRoundTripPreservesPrecision(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s, _ := newTestStore(b)
	ctx := context.Background()

	in := models.Scenario{
		ID:            "precise",
		InterestRate:  6.875,
		PurchasePrice: 1234567.891011,
		VacancyRate:   1.0 / 3.0,
	}
	_, err = s.Update(ctx, in)
	require.NoError(t, err)

	// a fresh store over the same backend sees identical values
	fresh := NewScenarioStore(b, WithKeyPrefix("test:"))
	got, err := fresh.Get(ctx, "precise")
	require.NoError(t, err)
	assert.Equal(t, in.InterestRate, got.InterestRate)
	assert.Equal(t, in.PurchasePrice, got.PurchasePrice)
	assert.Equal(t, in.VacancyRate, got.VacancyRate)
}

func TestStoreOverSQLite(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "scenarios.db"))
	require.NoError(t, err)
	defer Close(b)

	s, _ := newTestStore(b)
	ctx := context.Background()
	list, err := s.List(ctx)
	require.NoError(t, err)

	dup, err := s.Duplicate(ctx, list[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.SetActiveID(ctx, dup.ID))

	active, err := s.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, dup.ID, active.ID)
}

type failingBackend struct {
	readErr, writeErr error
	*MemoryBackend
}

func (f *failingBackend) Read(ctx context.Context, key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.MemoryBackend.Read(ctx, key)
}

func (f *failingBackend) Write(ctx context.Context, key, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.MemoryBackend.Write(ctx, key, value)
}

func TestBackendFailuresSurface(t *testing.T) {
	ctx := context.Background()
	unavailable := errors.New("storage unavailable")

	writeFails := &failingBackend{writeErr: unavailable, MemoryBackend: NewMemoryBackend()}
	s, _ := newTestStore(writeFails)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, unavailable, "seeding the default is a write")
	_, err = s.Update(ctx, models.Scenario{ID: "x"})
	assert.ErrorIs(t, err, unavailable)
	assert.ErrorIs(t, s.SetActiveID(ctx, "x"), unavailable)

	readFails := &failingBackend{readErr: unavailable, MemoryBackend: NewMemoryBackend()}
	s, _ = newTestStore(readFails)
	_, err = s.GetActive(ctx)
	assert.ErrorIs(t, err, unavailable)
}

func TestCorruptCollectionIsAnError(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Write(context.Background(), "test:scenarios", "{not json"))
	s, _ := newTestStore(b)
	_, err := s.List(context.Background())
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := logging.Discard()

	b, err := Open(ctx, config.StorageConfig{Backend: "memory"}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = Open(ctx, config.StorageConfig{Backend: "file", DataDir: t.TempDir()}, log)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open(ctx, config.StorageConfig{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "s.db")}, log)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, b)
	require.NoError(t, Close(b))

	_, err = Open(ctx, config.StorageConfig{Backend: "etcd"}, log)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
