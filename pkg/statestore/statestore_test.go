package statestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStatusRoundTrip(t *testing.T) {
	db := openTest(t)

	s, err := db.GetStatus("acme.hello")
	require.NoError(t, err)
	require.Empty(t, s.State)

	require.NoError(t, db.PutStatus("acme.hello", Status{State: "installing", Progress: 50}))
	s, err = db.GetStatus("acme.hello")
	require.NoError(t, err)
	require.Equal(t, "installing", s.State)
	require.False(t, s.IsInstalled())

	require.NoError(t, db.PutStatus("acme.hello", Status{State: "installed", Version: "1.0.0"}))
	s, err = db.GetStatus("acme.hello")
	require.NoError(t, err)
	require.True(t, s.IsInstalled())
	require.False(t, s.HasUpdate())

	require.NoError(t, db.DeleteStatus("acme.hello"))
	s, err = db.GetStatus("acme.hello")
	require.NoError(t, err)
	require.Empty(t, s.State)
}

func TestListStatuses(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.PutStatus("a", Status{State: "installed"}))
	require.NoError(t, db.PutStatus("b", Status{State: "failed", Error: "boom"}))

	all, err := db.ListStatuses()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "failed", all["b"].State)
}

func TestEnabledFlag(t *testing.T) {
	db := openTest(t)

	enabled, err := db.IsEnabled("acme.hello")
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, db.SetEnabled("acme.hello", true))
	enabled, err = db.IsEnabled("acme.hello")
	require.NoError(t, err)
	require.True(t, enabled)
}
