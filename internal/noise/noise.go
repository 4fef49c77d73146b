// Package noise classifies change events as substantive or noise.
// The filter is a pure predicate over an ordered rule table: bot authors,
// merge/trivial-edit messages, then a diff-size threshold. False negatives
// are tolerated (the enricher can still skip a session); false positives
// drop real changes, so the builtin patterns stay narrow.
package noise

import (
	"regexp"
	"strings"

	"docpulse/internal/config"
	"docpulse/internal/events"
)

// Filter applies the noise rules to change events.
type Filter struct {
	authors         []AuthorPattern
	messages        []MessagePattern
	minChangedLines int
}

// NewFilter builds a filter from the builtin tables plus any user rules.
// User rules are checked first. Invalid user regexes are skipped rather
// than failing the run.
func NewFilter(cfg config.NoiseConfig, rules config.NoiseRules) *Filter {
	f := &Filter{minChangedLines: cfg.MinChangedLines}

	for _, s := range rules.BotAuthors {
		if s == "" {
			continue
		}
		f.authors = append(f.authors, AuthorPattern{
			Name:      "user:" + s,
			Substring: strings.ToLower(s),
		})
	}
	f.authors = append(f.authors, BuiltinAuthorPatterns...)

	for _, expr := range rules.TrivialMessages {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			continue
		}
		f.messages = append(f.messages, MessagePattern{Name: "user:" + expr, Regex: re})
	}
	f.messages = append(f.messages, BuiltinMessagePatterns...)

	return f
}

// IsNoise reports whether a single event should be excluded. Pure and
// total: it never fails, and a nil event is trivially noise.
func (f *Filter) IsNoise(e *events.ChangeEvent) bool {
	if e == nil {
		return true
	}

	author := strings.ToLower(e.Author)
	for _, p := range f.authors {
		if p.Substring != "" && strings.Contains(author, p.Substring) {
			return true
		}
	}

	message := strings.ToLower(strings.TrimSpace(e.Message))
	for _, p := range f.messages {
		if p.Regex.MatchString(message) {
			return true
		}
	}

	return false
}

// IsNoiseGroup applies the file-group variant: a set of events sharing one
// change is noise when every file is non-content, or when the total diff
// is below the line threshold and only markdown files are touched.
func (f *Filter) IsNoiseGroup(group []*events.ChangeEvent) bool {
	if len(group) == 0 {
		return true
	}

	allNonContent := true
	total := 0
	onlyMarkdown := true
	for _, e := range group {
		if !isNonContentPath(e.Path) {
			allNonContent = false
		}
		if !e.IsMarkdown() {
			onlyMarkdown = false
		}
		total += e.TotalLines()
	}
	if allNonContent {
		return true
	}
	if total <= f.minChangedLines && onlyMarkdown {
		return true
	}
	return false
}

func isNonContentPath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range nonContentExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
