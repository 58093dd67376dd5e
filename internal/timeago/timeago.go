// Package timeago renders relative creation timestamps. Two rules exist:
// the project detail view counts days without bound, while the explore
// cards roll into weeks after seven days. Both phrasings (including the
// ungrammatical "1 days ago") match the backend's web client and are kept
// as-is so the two surfaces stay consistent.
package timeago

import (
	"fmt"
	"time"
)

// Format renders the detail-view rule: hours under a day, then days
// without an upper bound.
func Format(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	if hours < 1 {
		return "Just now"
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}
	return fmt.Sprintf("%d days ago", hours/24)
}

// FormatShort renders the explore-card rule: identical to Format under
// seven days, then weeks.
func FormatShort(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	if hours < 1 {
		return "Just now"
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%d days ago", days)
	}
	return fmt.Sprintf("%d weeks ago", days/7)
}
