package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/store"
)

func open(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsRoundtrip(t *testing.T) {
	s := open(t)

	value, err := s.GetSetting("missing")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, s.SetSetting("greeting", "hello"))
	value, err = s.GetSetting("greeting")
	require.NoError(t, err)
	require.Equal(t, "hello", value)

	require.NoError(t, s.SetSetting("greeting", "hej"))
	value, err = s.GetSetting("greeting")
	require.NoError(t, err)
	require.Equal(t, "hej", value)
}

func TestLastProjectID(t *testing.T) {
	s := open(t)

	id, err := s.LastProjectID()
	require.NoError(t, err)
	require.Zero(t, id)

	require.NoError(t, s.SetLastProjectID(42))
	id, err = s.LastProjectID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	require.NoError(t, s.SetLastProjectID(0))
	id, err = s.LastProjectID()
	require.NoError(t, err)
	require.Zero(t, id)
}

func TestSessionUserID(t *testing.T) {
	s := open(t)

	require.NoError(t, s.SetSessionUserID(7))
	id, err := s.SessionUserID()
	require.NoError(t, err)
	require.Equal(t, int64(7), id)

	require.NoError(t, s.SetSessionUserID(0))
	id, err = s.SessionUserID()
	require.NoError(t, err)
	require.Zero(t, id)
}

func TestRecentProjectsNewestFirst(t *testing.T) {
	s := open(t)

	require.NoError(t, s.TouchRecentProject(1, "Midnight Vibes"))
	require.NoError(t, s.TouchRecentProject(2, "Summer Haze"))
	// revisiting bumps the entry instead of duplicating it
	require.NoError(t, s.TouchRecentProject(1, "Midnight Vibes (v2)"))

	recents, err := s.RecentProjects(10)
	require.NoError(t, err)
	require.Len(t, recents, 2)
	require.Equal(t, "Midnight Vibes (v2)", recents[0].Title)
}
