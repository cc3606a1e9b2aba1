package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pevans/lectio/mass"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testMass(t *testing.T, massType mass.Type) *mass.Mass {
	t.Helper()

	m := mass.Assemble(
		time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
		massType,
		"Nativity of the Lord",
		"https://example.com/122525.cfm",
		[]mass.Reading{
			{Role: mass.RoleFirstReading, Citation: "Is 52:7-10", Text: "How beautiful."},
			{Role: mass.RoleGospel, Citation: "Jn 1:1-18", Text: "In the beginning."},
		},
	)
	require.NotNil(t, m)
	return m
}

// TestStoreRoundTrip verifies a stored mass comes back equal
func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	m := testMass(t, mass.TypeDay)

	require.NoError(t, store.Set(m, time.Hour))

	got, err := store.Get(m.Date, mass.TypeDay)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m, got)
}

// TestStoreMiss verifies an absent entry is (nil, nil)
func TestStoreMiss(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), mass.TypeDefault)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestStoreKeyedByType verifies entries for the same date but different
// types do not collide
func TestStoreKeyedByType(t *testing.T) {
	store := newTestStore(t)

	day := testMass(t, mass.TypeDay)
	vigil := testMass(t, mass.TypeVigil)
	require.NoError(t, store.Set(day, time.Hour))
	require.NoError(t, store.Set(vigil, time.Hour))

	got, err := store.Get(day.Date, mass.TypeVigil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, mass.TypeVigil, got.Type)
}

// TestStoreExpiry verifies an expired entry reads as a miss
func TestStoreExpiry(t *testing.T) {
	store := newTestStore(t)
	m := testMass(t, mass.TypeDay)

	require.NoError(t, store.Set(m, -time.Minute))

	got, err := store.Get(m.Date, mass.TypeDay)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestStoreReplace verifies a second Set for the same pair overwrites the
// first
func TestStoreReplace(t *testing.T) {
	store := newTestStore(t)

	m := testMass(t, mass.TypeDay)
	require.NoError(t, store.Set(m, time.Hour))

	updated := testMass(t, mass.TypeDay)
	updated.Title = "Christmas Mass during the Day"
	require.NoError(t, store.Set(updated, time.Hour))

	got, err := store.Get(m.Date, mass.TypeDay)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Christmas Mass during the Day", got.Title)
}
