package timeago_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/timeago"
)

var now = time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

func TestFormatThresholds(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{59 * time.Minute, "Just now"},
		{61 * time.Minute, "1 hours ago"},
		{5 * time.Hour, "5 hours ago"},
		{23*time.Hour + 30*time.Minute, "23 hours ago"},
		{30 * time.Hour, "1 days ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{10 * 24 * time.Hour, "10 days ago"},
		{40 * 24 * time.Hour, "40 days ago"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, timeago.Format(now.Add(-c.age), now), c.age.String())
	}
}

func TestFormatShortThresholds(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "1 days ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{10 * 24 * time.Hour, "1 weeks ago"},
		{40 * 24 * time.Hour, "5 weeks ago"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, timeago.FormatShort(now.Add(-c.age), now), c.age.String())
	}
}

// The two rules agree under seven days and then deliberately diverge.
func TestRulesDivergeOnlyPastAWeek(t *testing.T) {
	under := now.Add(-30 * time.Hour)
	require.Equal(t, timeago.Format(under, now), timeago.FormatShort(under, now))

	over := now.Add(-10 * 24 * time.Hour)
	require.Equal(t, "10 days ago", timeago.Format(over, now))
	require.Equal(t, "1 weeks ago", timeago.FormatShort(over, now))
}
