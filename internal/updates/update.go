// Package updates holds the persisted Update model, the retention-window
// policy and the merge step that keeps the stored list deduplicated,
// sorted and capped across repeated fetch cycles.
package updates

import (
	"strings"
	"time"
)

// Update is the persisted, user-visible record summarizing one document's
// recent changes.
type Update struct {
	// PartitionKey is the earliest contributing event's date (YYYY-MM-DD)
	PartitionKey string `json:"partitionKey"`

	// RowKey is the unique identity: the latest contributing event's
	// identifier scoped by the document key, so one commit touching
	// several documents yields distinct rows; merge results use
	// "merged-<rowKey>"
	RowKey string `json:"rowKey"`

	// Title describes the change set
	Title string `json:"title"`

	// Category is the semantic category of the touched document
	Category string `json:"category"`

	// Date is the latest contributing event's time; it drives sorting and
	// window eviction and never reflects the earliest event
	Date time.Time `json:"date"`

	// URL is the canonical document link
	URL string `json:"url"`

	// Summary is the natural-language change description
	Summary string `json:"summary"`

	// Impact describes who is affected, may be empty
	Impact string `json:"impact,omitempty"`

	// Commits is the set of contributing event identifiers
	Commits []string `json:"commits"`
}

// normalize trims summary/impact whitespace in place
func (u *Update) normalize() {
	u.Summary = strings.TrimSpace(u.Summary)
	u.Impact = strings.TrimSpace(u.Impact)
	u.Title = strings.TrimSpace(u.Title)
}

// WindowStart computes the inclusive lower bound of the retention window:
// now minus days, floored to the UTC day boundary so repeated runs within
// one day agree on the cutoff.
func WindowStart(now time.Time, days int) time.Time {
	cutoff := now.UTC().AddDate(0, 0, -days)
	return time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
}

// ShouldRun implements the staleness gate: run when the last fetch is
// older than minInterval. This is a liveness optimization, not a lock;
// overlapping runs stay safe because Merge is idempotent.
func ShouldRun(lastFetch, now time.Time, minInterval time.Duration) bool {
	if lastFetch.IsZero() {
		return true
	}
	return now.Sub(lastFetch) >= minInterval
}
