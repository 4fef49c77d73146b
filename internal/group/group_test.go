package group

import (
	"testing"
	"time"

	"docpulse/internal/config"
	"docpulse/internal/events"
)

var day = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newTestGrouper() *Grouper {
	return New(config.GroupingConfig{MinSharedWords: 2, MinWordLength: 4}, nil)
}

func ev(id, path, message string, at time.Time) *events.ChangeEvent {
	return &events.ChangeEvent{
		ID:        id,
		Path:      path,
		Message:   message,
		Timestamp: at,
		Additions: 10,
		Deletions: 2,
	}
}

func TestExactPathMatch(t *testing.T) {
	// Scenario: two events on docs/a.md with related same-day titles form
	// one session.
	g := newTestGrouper()
	batch := []*events.ChangeEvent{
		ev("c1", "docs/a.md", "expand token rotation guidance", day),
		ev("c2", "docs/a.md", "more token rotation examples", day.Add(2*time.Hour)),
	}

	sessions := g.Group(batch)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if len(sessions[0].Events) != 2 {
		t.Errorf("session has %d events, want 2", len(sessions[0].Events))
	}
	if sessions[0].Key != "docs/a.md" {
		t.Errorf("session key = %q", sessions[0].Key)
	}
}

func TestCanonicalURLMatch(t *testing.T) {
	urlFor := func(path string) string {
		// Both spellings publish to one live page
		if path == "docs/auth.md" || path == "docs/auth.mdx" {
			return "https://x/auth"
		}
		return path
	}
	g := New(config.GroupingConfig{MinSharedWords: 2, MinWordLength: 4}, urlFor)

	batch := []*events.ChangeEvent{
		ev("c1", "docs/auth.md", "initial rewrite", day),
		ev("c2", "docs/auth.mdx", "migrate page to mdx", day.Add(26*time.Hour)),
	}

	sessions := g.Group(batch)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1 (URL match spans days)", len(sessions))
	}
	if sessions[0].URL != "https://x/auth" {
		t.Errorf("session URL = %q", sessions[0].URL)
	}
}

func TestHeuristicFallback(t *testing.T) {
	g := newTestGrouper()

	// Same day, same parent dir, >=2 shared long words: one session.
	related := []*events.ChangeEvent{
		ev("c1", "docs/webhooks/retries.md", "document webhook retry backoff", day),
		ev("c2", "docs/webhooks/delivery.md", "clarify webhook retry headers", day.Add(time.Hour)),
	}
	if sessions := g.Group(related); len(sessions) != 1 {
		t.Errorf("related split commit: got %d sessions, want 1", len(sessions))
	}

	// Different parent dir breaks the heuristic.
	apart := []*events.ChangeEvent{
		ev("c1", "docs/webhooks/retries.md", "document webhook retry backoff", day),
		ev("c2", "docs/api/errors.md", "clarify webhook retry headers", day.Add(time.Hour)),
	}
	if sessions := g.Group(apart); len(sessions) != 2 {
		t.Errorf("different dirs: got %d sessions, want 2", len(sessions))
	}

	// Different day breaks the heuristic.
	nextDay := []*events.ChangeEvent{
		ev("c1", "docs/webhooks/retries.md", "document webhook retry backoff", day),
		ev("c2", "docs/webhooks/delivery.md", "clarify webhook retry headers", day.Add(25*time.Hour)),
	}
	if sessions := g.Group(nextDay); len(sessions) != 2 {
		t.Errorf("different days: got %d sessions, want 2", len(sessions))
	}

	// One shared word is not enough.
	oneWord := []*events.ChangeEvent{
		ev("c1", "docs/webhooks/retries.md", "document webhook backoff", day),
		ev("c2", "docs/webhooks/delivery.md", "clarify webhook headers", day.Add(time.Hour)),
	}
	if sessions := g.Group(oneWord); len(sessions) != 2 {
		t.Errorf("single shared word: got %d sessions, want 2", len(sessions))
	}
}

func TestPartitionIsExact(t *testing.T) {
	// Every event appears in exactly one session.
	g := newTestGrouper()
	batch := []*events.ChangeEvent{
		ev("c1", "docs/a.md", "expand token rotation guidance", day),
		ev("c2", "docs/b.md", "unrelated page edit", day),
		ev("c3", "docs/a.md", "more token rotation examples", day.Add(time.Hour)),
		ev("c4", "docs/c.md", "third page", day.Add(2*time.Hour)),
	}

	sessions := g.Group(batch)

	seen := make(map[string]int)
	for _, s := range sessions {
		for _, e := range s.Events {
			seen[e.ID]++
		}
	}
	if len(seen) != len(batch) {
		t.Errorf("union covers %d events, want %d", len(seen), len(batch))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("event %s appears %d times", id, n)
		}
	}
}

func TestUnorderedInputIsSorted(t *testing.T) {
	g := newTestGrouper()
	batch := []*events.ChangeEvent{
		ev("late", "docs/a.md", "later edit", day.Add(3*time.Hour)),
		ev("early", "docs/a.md", "earlier edit", day),
	}

	sessions := g.Group(batch)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Earliest().ID != "early" || s.Latest().ID != "late" {
		t.Errorf("events not time-ordered: first=%s last=%s", s.Earliest().ID, s.Latest().ID)
	}
}

func TestOutputOrderFollowsFirstEncounter(t *testing.T) {
	g := newTestGrouper()
	batch := []*events.ChangeEvent{
		ev("c3", "docs/b.md", "second page", day.Add(time.Hour)),
		ev("c1", "docs/a.md", "first page", day),
		ev("c4", "docs/a.md", "first page again later", day.Add(2*time.Hour)),
	}

	sessions := g.Group(batch)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Key != "docs/a.md" || sessions[1].Key != "docs/b.md" {
		t.Errorf("session order = %s, %s", sessions[0].Key, sessions[1].Key)
	}
}

func TestSessionAggregates(t *testing.T) {
	g := newTestGrouper()
	e1 := ev("c1", "docs/a.md", "expand token rotation guidance", day)
	e2 := ev("c2", "docs/a.md", "expand token rotation guidance", day.Add(time.Hour))
	e2.Additions = 5
	e2.Deletions = 1

	sessions := g.Group([]*events.ChangeEvent{e1, e2})
	s := sessions[0]

	if got := s.Additions(); got != 15 {
		t.Errorf("Additions = %d, want 15", got)
	}
	if got := s.Deletions(); got != 3 {
		t.Errorf("Deletions = %d, want 3", got)
	}
	if msgs := s.DistinctMessages(); len(msgs) != 1 {
		t.Errorf("DistinctMessages = %v, want one deduped title", msgs)
	}
	if ids := s.CommitIDs(); len(ids) != 2 {
		t.Errorf("CommitIDs = %v, want both", ids)
	}
}

func TestNilEventsSkipped(t *testing.T) {
	g := newTestGrouper()
	sessions := g.Group([]*events.ChangeEvent{nil, ev("c1", "docs/a.md", "edit", day)})
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
}
