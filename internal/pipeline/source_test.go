package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"docpulse/internal/config"
	"docpulse/internal/errors"
	"docpulse/internal/github"
	"docpulse/internal/logging"
)

type fakeAPI struct {
	commitPages [][]github.CommitSummary
	details     map[string]*github.CommitDetail
	detailErrs  map[string]error
	pullPages   [][]github.Pull
	pullFiles   map[int][]github.FileChange
	pageSize    int

	commitPagesAsked int
	pullPagesAsked   int
}

func (f *fakeAPI) ListCommits(_ context.Context, _, _ string, _ time.Time, page int) ([]github.CommitSummary, error) {
	f.commitPagesAsked++
	if page > len(f.commitPages) {
		return nil, nil
	}
	return f.commitPages[page-1], nil
}

func (f *fakeAPI) GetCommit(_ context.Context, _, _, sha string) (*github.CommitDetail, error) {
	if err := f.detailErrs[sha]; err != nil {
		return nil, err
	}
	return f.details[sha], nil
}

func (f *fakeAPI) ListClosedPulls(_ context.Context, _, _ string, page int) ([]github.Pull, error) {
	f.pullPagesAsked++
	if page > len(f.pullPages) {
		return nil, nil
	}
	return f.pullPages[page-1], nil
}

func (f *fakeAPI) ListPullFiles(_ context.Context, _, _ string, number int) ([]github.FileChange, error) {
	return f.pullFiles[number], nil
}

func (f *fakeAPI) PageSize() int {
	if f.pageSize > 0 {
		return f.pageSize
	}
	return 100
}

func testSource(api ChangeAPI) *Source {
	s := NewSource(api, config.GitHubConfig{MaxPages: 5}, logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Format: logging.JSONFormat}))
	s.sleep = func(time.Duration) {}
	return s
}

func docsFeed() *config.Feed {
	return &config.Feed{
		Name:       "docs-updates",
		Kind:       config.KindDocs,
		Owner:      "acme",
		Repo:       "handbook",
		DocsPrefix: "docs/",
	}
}

func TestFetchEventsFiltersByPrefix(t *testing.T) {
	ts := time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		commitPages: [][]github.CommitSummary{{
			{SHA: "abc", Message: "update docs", Author: "jane", Timestamp: ts, URL: "u"},
		}},
		details: map[string]*github.CommitDetail{
			"abc": {SHA: "abc", Files: []github.FileChange{
				{Path: "docs/auth.md", Status: "modified", Additions: 10, Deletions: 2},
				{Path: "src/main.go", Status: "modified", Additions: 50},
			}},
		},
	}

	got, err := testSource(api).FetchEvents(context.Background(), docsFeed(), ts.Add(-time.Hour))
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 (prefix filter)", len(got))
	}
	e := got[0]
	if e.ID != "abc" || e.Path != "docs/auth.md" || e.Author != "jane" || e.Additions != 10 {
		t.Errorf("event = %+v", e)
	}
}

func TestFetchEventsStopsOnShortPage(t *testing.T) {
	api := &fakeAPI{
		pageSize:    2,
		commitPages: [][]github.CommitSummary{{}},
	}
	if _, err := testSource(api).FetchEvents(context.Background(), docsFeed(), time.Time{}); err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if api.commitPagesAsked != 1 {
		t.Errorf("asked %d commit pages, want 1 (short page stops)", api.commitPagesAsked)
	}
}

func TestFetchEventsSkipsFailedDetail(t *testing.T) {
	ts := time.Now().UTC()
	api := &fakeAPI{
		commitPages: [][]github.CommitSummary{{
			{SHA: "bad", Message: "m", Timestamp: ts},
			{SHA: "good", Message: "m", Timestamp: ts},
		}},
		detailErrs: map[string]error{
			"bad": errors.New(errors.FetchFailed, "boom", nil),
		},
		details: map[string]*github.CommitDetail{
			"good": {SHA: "good", Files: []github.FileChange{{Path: "docs/a.md", Status: "modified", Additions: 5}}},
		},
	}

	got, err := testSource(api).FetchEvents(context.Background(), docsFeed(), time.Time{})
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(got) != 1 || got[0].ID != "good" {
		t.Errorf("events = %+v, want only the good commit", got)
	}
}

func TestFetchEventsPropagatesFatalDetailError(t *testing.T) {
	ts := time.Now().UTC()
	api := &fakeAPI{
		commitPages: [][]github.CommitSummary{{{SHA: "abc", Message: "m", Timestamp: ts}}},
		detailErrs: map[string]error{
			"abc": errors.New(errors.RateLimited, "limit exhausted", nil),
		},
	}

	_, err := testSource(api).FetchEvents(context.Background(), docsFeed(), time.Time{})
	runErr, ok := err.(*errors.RunError)
	if !ok || runErr.Code != errors.RateLimited {
		t.Errorf("err = %v, want RATE_LIMITED", err)
	}
}

func TestFetchEventsIncludesMergedPulls(t *testing.T) {
	merged := time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		pullPages: [][]github.Pull{{
			{Number: 7, Title: "Add webhooks guide", Author: "jane", MergedAt: merged, URL: "u"},
			{Number: 6, Title: "Old PR", Author: "joe", MergedAt: merged.Add(-30 * 24 * time.Hour)},
		}},
		pullFiles: map[int][]github.FileChange{
			7: {{Path: "docs/webhooks.md", Status: "added", Additions: 120}},
		},
	}

	got, err := testSource(api).FetchEvents(context.Background(), docsFeed(), merged.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 (old PR outside window)", len(got))
	}
	if got[0].ID != "pr-7" || got[0].Message != "Add webhooks guide" {
		t.Errorf("event = %+v", got[0])
	}
}

func TestFetchEventsStopsWhenPageAllOld(t *testing.T) {
	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	page := make([]github.Pull, 2)
	for i := range page {
		page[i] = github.Pull{Number: i + 1, Title: "old", MergedAt: old}
	}
	api := &fakeAPI{
		pageSize:  2,
		pullPages: [][]github.Pull{page, page},
	}

	if _, err := testSource(api).FetchEvents(context.Background(), docsFeed(), time.Now().UTC().Add(-24*time.Hour)); err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if api.pullPagesAsked != 1 {
		t.Errorf("asked %d pull pages, want 1 (all-old page stops)", api.pullPagesAsked)
	}
}

func TestBoundPatch(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "+line\n"
	}
	bounded := boundPatch(long, 40)
	if n := len(strings.Split(bounded, "\n")); n != 40 {
		t.Errorf("bounded patch has %d lines, want 40", n)
	}
	if boundPatch("", 40) != "" {
		t.Error("empty patch should stay empty")
	}
}
