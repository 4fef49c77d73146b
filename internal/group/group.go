// Package group partitions change events into per-document sessions.
//
// Matching is a precision-over-recall tie-break: an exact path match or a
// shared canonical URL is trusted outright; the same-day text heuristic
// exists only to catch split commits describing one edit and is kept
// conservative so unrelated pages never merge.
package group

import (
	"sort"
	"time"

	"docpulse/internal/config"
	"docpulse/internal/events"
)

// Session is a provisional grouping of change events believed to describe
// edits to one document within a single pipeline run. Sessions are rebuilt
// from scratch every run; continuity across runs belongs to the merger.
type Session struct {
	// Key is the canonical document path (the first event's file path)
	Key string

	// URL is the canonical live document link for the key
	URL string

	// Events is ordered by timestamp ascending
	Events []*events.ChangeEvent

	paths map[string]bool
	urls  map[string]bool
}

// Earliest returns the first event by time
func (s *Session) Earliest() *events.ChangeEvent {
	return s.Events[0]
}

// Latest returns the last event by time
func (s *Session) Latest() *events.ChangeEvent {
	return s.Events[len(s.Events)-1]
}

// Additions returns the aggregate added line count
func (s *Session) Additions() int {
	total := 0
	for _, e := range s.Events {
		total += e.Additions
	}
	return total
}

// Deletions returns the aggregate deleted line count
func (s *Session) Deletions() int {
	total := 0
	for _, e := range s.Events {
		total += e.Deletions
	}
	return total
}

// DistinctMessages returns the unique commit/PR titles in first-seen order
func (s *Session) DistinctMessages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.Events {
		if !seen[e.Message] {
			seen[e.Message] = true
			out = append(out, e.Message)
		}
	}
	return out
}

// CommitIDs returns the unique contributing event identifiers in order
func (s *Session) CommitIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.Events {
		if !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e.ID)
		}
	}
	return out
}

// Grouper builds sessions from a batch of events.
type Grouper struct {
	minSharedWords int
	minWordLength  int
	urlFor         func(path string) string
}

// New creates a grouper. urlFor maps a file path to its canonical document
// URL; distinct paths mapping to one URL land in the same session.
func New(cfg config.GroupingConfig, urlFor func(path string) string) *Grouper {
	minWords := cfg.MinSharedWords
	if minWords <= 0 {
		minWords = 2
	}
	minLen := cfg.MinWordLength
	if minLen <= 0 {
		minLen = 4
	}
	if urlFor == nil {
		urlFor = func(path string) string { return path }
	}
	return &Grouper{
		minSharedWords: minWords,
		minWordLength:  minLen,
		urlFor:         urlFor,
	}
}

// Group partitions the events into sessions. Every input event lands in
// exactly one session; output order follows the chronological order in
// which each session's first event was encountered.
func (g *Grouper) Group(batch []*events.ChangeEvent) []*Session {
	sorted := make([]*events.ChangeEvent, 0, len(batch))
	for _, e := range batch {
		if e != nil {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sessions []*Session
	for _, e := range sorted {
		if s := g.findMatch(sessions, e); s != nil {
			g.append(s, e)
			continue
		}
		sessions = append(sessions, g.newSession(e))
	}
	return sessions
}

func (g *Grouper) newSession(e *events.ChangeEvent) *Session {
	s := &Session{
		Key:    e.Path,
		URL:    g.urlFor(e.Path),
		Events: []*events.ChangeEvent{e},
		paths:  map[string]bool{e.Path: true},
		urls:   map[string]bool{},
	}
	s.urls[g.urlFor(e.Path)] = true
	return s
}

func (g *Grouper) append(s *Session, e *events.ChangeEvent) {
	s.Events = append(s.Events, e)
	s.paths[e.Path] = true
	s.urls[g.urlFor(e.Path)] = true
}

// findMatch applies the match rules in order of trust: exact path, shared
// canonical URL, then the same-day relatedness heuristic.
func (g *Grouper) findMatch(sessions []*Session, e *events.ChangeEvent) *Session {
	for _, s := range sessions {
		if s.paths[e.Path] {
			return s
		}
	}
	url := g.urlFor(e.Path)
	for _, s := range sessions {
		if s.urls[url] {
			return s
		}
	}
	for _, s := range sessions {
		if g.related(s, e) {
			return s
		}
	}
	return nil
}

// related implements the conservative fallback: same UTC calendar day as
// the session's first event, enough shared long message tokens, and the
// same parent directory as the session's first file.
func (g *Grouper) related(s *Session, e *events.ChangeEvent) bool {
	first := s.Earliest()
	if !sameDay(first.Timestamp, e.Timestamp) {
		return false
	}
	if first.ParentDir() != e.ParentDir() {
		return false
	}

	shared := 0
	firstTokens := first.MessageTokens(g.minWordLength)
	for token := range e.MessageTokens(g.minWordLength) {
		if firstTokens[token] {
			shared++
		}
	}
	return shared >= g.minSharedWords
}

func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.YearDay() == bu.YearDay()
}
