package updates

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// bulletSeparator joins distinct summaries/impacts of a collapsed record
const bulletSeparator = " • "

// Merge combines freshly produced updates with previously persisted ones.
//
// Steps, in order: evict existing records older than windowStart, drop new
// records whose rowKey already survives (identity dedup), collapse records
// sharing a URL into one synthetic record (semantic dedup), sort by date
// descending, truncate to cap.
//
// Two dedup levels are required: one fetch cycle can discover the same
// document through both a PR and a direct commit, and repeated runs must
// not re-insert records the window already retired. The whole step is
// idempotent and commutative with respect to re-application, which is what
// makes overlapping runs harmless.
func Merge(newUpdates, existing []Update, windowStart time.Time, cap int) []Update {
	var kept []Update
	for _, u := range existing {
		if !u.Date.Before(windowStart) {
			kept = append(kept, u)
		}
	}

	seen := make(map[string]bool, len(kept))
	for _, u := range kept {
		seen[u.RowKey] = true
	}
	for _, u := range newUpdates {
		if u.Date.Before(windowStart) {
			continue
		}
		if seen[u.RowKey] {
			continue
		}
		seen[u.RowKey] = true
		kept = append(kept, u)
	}

	merged := collapseByURL(kept)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})

	if cap > 0 && len(merged) > cap {
		merged = merged[:cap]
	}
	return merged
}

// collapseByURL groups records by canonical URL. A URL with one record
// passes through (normalized); multiple records become one synthetic
// record: earliest as the field template, latest date, rowKey
// "merged-<latestRowKey>", title annotated with the contributing count,
// union of summaries/impacts/commits.
func collapseByURL(in []Update) []Update {
	byURL := make(map[string][]Update)
	var order []string
	for _, u := range in {
		if _, ok := byURL[u.URL]; !ok {
			order = append(order, u.URL)
		}
		byURL[u.URL] = append(byURL[u.URL], u)
	}

	out := make([]Update, 0, len(order))
	for _, url := range order {
		group := byURL[url]
		if len(group) == 1 {
			u := group[0]
			u.normalize()
			out = append(out, u)
			continue
		}
		out = append(out, collapseGroup(group))
	}
	return out
}

func collapseGroup(group []Update) Update {
	earliest := group[0]
	latest := group[0]
	for _, u := range group[1:] {
		if u.Date.Before(earliest.Date) {
			earliest = u
		}
		if u.Date.After(latest.Date) {
			latest = u
		}
	}

	merged := earliest
	merged.Date = latest.Date
	merged.RowKey = "merged-" + strings.TrimPrefix(latest.RowKey, "merged-")
	merged.Title = fmt.Sprintf("%s (%d updates)", stripCountSuffix(earliest.Title), len(group))
	merged.Summary = joinDistinct(collect(group, func(u Update) string { return u.Summary }))
	merged.Impact = joinDistinct(collect(group, func(u Update) string { return u.Impact }))
	merged.Commits = unionCommits(group)
	merged.normalize()
	return merged
}

// stripCountSuffix removes a previous "(n updates)" annotation so repeated
// merges do not stack suffixes.
func stripCountSuffix(title string) string {
	title = strings.TrimSpace(title)
	open := strings.LastIndex(title, " (")
	if open > 0 && strings.HasSuffix(title, " updates)") {
		return title[:open]
	}
	return title
}

func collect(group []Update, field func(Update) string) []string {
	out := make([]string, 0, len(group))
	for _, u := range group {
		out = append(out, field(u))
	}
	return out
}

// joinDistinct unions the distinct non-empty values, preserving first-seen
// order, joined with a bullet separator. Values already containing the
// separator are split first so re-merging stays stable.
func joinDistinct(values []string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, v := range values {
		for _, piece := range strings.Split(v, bulletSeparator) {
			piece = strings.TrimSpace(piece)
			if piece == "" || seen[piece] {
				continue
			}
			seen[piece] = true
			parts = append(parts, piece)
		}
	}
	return strings.Join(parts, bulletSeparator)
}

func unionCommits(group []Update) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range group {
		for _, c := range u.Commits {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
