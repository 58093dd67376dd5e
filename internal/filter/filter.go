// Package filter holds the explore view's search/sort/filter selection and
// serializes it into the query string the explore endpoint expects.
package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultSort is used whenever no sort key has been chosen
const DefaultSort = "recent"

// State is the client-held filter selection. The zero value is the empty
// selection a freshly mounted explore view starts with.
type State struct {
	Search       string
	Genre        string
	Monetization string
	MinBPM       *int
	MaxBPM       *int
	Roles        []string
	SortBy       string
}

// Query serializes the state into a canonical query string. Empty fields
// are omitted entirely, the role set becomes a single comma-joined
// parameter, and sort_by is always present. url.Values sorts keys on
// Encode, so an unchanged state serializes byte-identically every time.
// BPM bounds are passed through as given; the backend decides what a
// nonsensical range means.
func (s State) Query() string {
	params := url.Values{}

	if s.Search != "" {
		params.Set("search", s.Search)
	}
	if s.Genre != "" {
		params.Set("genre", s.Genre)
	}
	if s.Monetization != "" {
		params.Set("monetization_type", s.Monetization)
	}
	if s.MinBPM != nil {
		params.Set("min_bpm", strconv.Itoa(*s.MinBPM))
	}
	if s.MaxBPM != nil {
		params.Set("max_bpm", strconv.Itoa(*s.MaxBPM))
	}
	if len(s.Roles) > 0 {
		params.Set("collaboration_needs", strings.Join(s.Roles, ","))
	}

	sortBy := s.SortBy
	if sortBy == "" {
		sortBy = DefaultSort
	}
	params.Set("sort_by", sortBy)

	return params.Encode()
}

// Reset clears every field in one action
func (s *State) Reset() {
	*s = State{}
}

// ToggleRole adds the role to the selection, or removes it if present
func (s *State) ToggleRole(role string) {
	for i, have := range s.Roles {
		if have == role {
			s.Roles = append(s.Roles[:i], s.Roles[i+1:]...)
			return
		}
	}
	s.Roles = append(s.Roles, role)
}

// HasRole reports whether the role is currently selected
func (s State) HasRole(role string) bool {
	for _, have := range s.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// ActiveCount is the number of filters in effect, excluding the sort key
func (s State) ActiveCount() int {
	n := 0
	if s.Search != "" {
		n++
	}
	if s.Genre != "" {
		n++
	}
	if s.Monetization != "" {
		n++
	}
	if s.MinBPM != nil || s.MaxBPM != nil {
		n++
	}
	n += len(s.Roles)
	return n
}
