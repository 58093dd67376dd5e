package filter_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/filter"
)

func intp(v int) *int { return &v }

func TestQueryEmptyStateOnlyCarriesSort(t *testing.T) {
	var s filter.State
	require.Equal(t, "sort_by=recent", s.Query())
}

func TestQueryIsIdempotent(t *testing.T) {
	s := filter.State{
		Search:       "late night",
		Genre:        "Jazz",
		Monetization: "bounty",
		MinBPM:       intp(80),
		Roles:        []string{"Vocalist", "Producer"},
		SortBy:       "trending",
	}
	first := s.Query()
	require.Equal(t, first, s.Query())
	require.Equal(t, first, s.Query())
}

func TestQueryOmitsEmptyFields(t *testing.T) {
	s := filter.State{Genre: "Pop"}
	parsed, err := url.ParseQuery(s.Query())
	require.NoError(t, err)

	require.Equal(t, url.Values{
		"genre":   {"Pop"},
		"sort_by": {"recent"},
	}, parsed)

	for _, key := range []string{"search", "monetization_type", "min_bpm", "max_bpm", "collaboration_needs"} {
		_, present := parsed[key]
		require.False(t, present, key)
	}
}

func TestQueryFullSelection(t *testing.T) {
	s := filter.State{
		Genre:  "Jazz",
		MinBPM: intp(80),
		MaxBPM: intp(140),
		Roles:  []string{"Vocalist", "Producer"},
		SortBy: "trending",
	}
	parsed, err := url.ParseQuery(s.Query())
	require.NoError(t, err)
	require.Equal(t, url.Values{
		"genre":               {"Jazz"},
		"min_bpm":             {"80"},
		"max_bpm":             {"140"},
		"collaboration_needs": {"Vocalist,Producer"},
		"sort_by":             {"trending"},
	}, parsed)

	// the role set rides in one escaped parameter, not repeated keys
	require.Contains(t, s.Query(), "collaboration_needs=Vocalist%2CProducer")
}

func TestQueryPassesInvertedBPMRangeThrough(t *testing.T) {
	s := filter.State{MinBPM: intp(200), MaxBPM: intp(60)}
	parsed, err := url.ParseQuery(s.Query())
	require.NoError(t, err)
	require.Equal(t, "200", parsed.Get("min_bpm"))
	require.Equal(t, "60", parsed.Get("max_bpm"))
}

func TestToggleRole(t *testing.T) {
	var s filter.State
	s.ToggleRole("Vocalist")
	s.ToggleRole("Drummer")
	require.Equal(t, []string{"Vocalist", "Drummer"}, s.Roles)
	require.True(t, s.HasRole("Vocalist"))

	s.ToggleRole("Vocalist")
	require.Equal(t, []string{"Drummer"}, s.Roles)
	require.False(t, s.HasRole("Vocalist"))
}

func TestResetClearsEverything(t *testing.T) {
	s := filter.State{
		Search:       "x",
		Genre:        "Rock",
		Monetization: "free",
		MinBPM:       intp(1),
		MaxBPM:       intp(2),
		Roles:        []string{"DJ"},
		SortBy:       "popular",
	}
	s.Reset()
	require.Equal(t, filter.State{}, s)
	require.Zero(t, s.ActiveCount())
}

func TestActiveCount(t *testing.T) {
	s := filter.State{
		Genre:  "Jazz",
		MinBPM: intp(80),
		Roles:  []string{"Vocalist", "Producer"},
		SortBy: "trending",
	}
	// genre + bpm range + two roles; sort never counts
	require.Equal(t, 4, s.ActiveCount())
}
