// Package pipeline orchestrates one refresh cycle for a feed: fetch
// change activity, filter noise, group into sessions, classify, enrich,
// merge into the stored update list.
package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"docpulse/internal/config"
	"docpulse/internal/errors"
	"docpulse/internal/events"
	"docpulse/internal/github"
	"docpulse/internal/logging"
)

// maxPatchLines bounds the per-file patch excerpt carried on an event
const maxPatchLines = 40

// ChangeAPI is the subset of the GitHub client the source consumes
type ChangeAPI interface {
	ListCommits(ctx context.Context, owner, repo string, since time.Time, page int) ([]github.CommitSummary, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*github.CommitDetail, error)
	ListClosedPulls(ctx context.Context, owner, repo string, page int) ([]github.Pull, error)
	ListPullFiles(ctx context.Context, owner, repo string, number int) ([]github.FileChange, error)
	PageSize() int
}

// Source turns repository activity into change events. Commit-level and
// PR-level activity are both fetched; the same edit may surface through
// either, and downstream dedup keeps that harmless.
type Source struct {
	api    ChangeAPI
	cfg    config.GitHubConfig
	logger *logging.Logger
	sleep  func(time.Duration)
}

// NewSource creates a source over the given API client.
func NewSource(api ChangeAPI, cfg config.GitHubConfig, logger *logging.Logger) *Source {
	return &Source{
		api:    api,
		cfg:    cfg,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// FetchEvents returns the change events for a feed since the cutoff.
// Pagination is bounded by maxPages; a failed detail lookup skips that
// item unless the failure would also doom every later request.
func (s *Source) FetchEvents(ctx context.Context, feed *config.Feed, since time.Time) ([]*events.ChangeEvent, error) {
	commitEvents, err := s.fetchCommitEvents(ctx, feed, since)
	if err != nil {
		return nil, err
	}
	prEvents, err := s.fetchPullEvents(ctx, feed, since)
	if err != nil {
		return nil, err
	}
	return append(commitEvents, prEvents...), nil
}

func (s *Source) fetchCommitEvents(ctx context.Context, feed *config.Feed, since time.Time) ([]*events.ChangeEvent, error) {
	var out []*events.ChangeEvent

	for page := 1; page <= s.cfg.MaxPages; page++ {
		commits, err := s.api.ListCommits(ctx, feed.Owner, feed.Repo, since, page)
		if err != nil {
			return nil, err
		}

		for _, c := range commits {
			s.detailDelay()
			detail, err := s.api.GetCommit(ctx, feed.Owner, feed.Repo, c.SHA)
			if err != nil {
				if fatalFetch(err) {
					return nil, err
				}
				s.logger.Warn("Skipping commit, detail fetch failed", map[string]interface{}{
					"sha":   c.SHA,
					"error": err.Error(),
				})
				continue
			}
			for _, f := range detail.Files {
				if e := s.eventFromFile(feed, f, c.SHA, c.Message, c.Author, c.Timestamp, c.URL); e != nil {
					out = append(out, e)
				}
			}
		}

		if len(commits) < s.api.PageSize() {
			break
		}
	}
	return out, nil
}

func (s *Source) fetchPullEvents(ctx context.Context, feed *config.Feed, since time.Time) ([]*events.ChangeEvent, error) {
	var out []*events.ChangeEvent

	for page := 1; page <= s.cfg.MaxPages; page++ {
		pulls, err := s.api.ListClosedPulls(ctx, feed.Owner, feed.Repo, page)
		if err != nil {
			return nil, err
		}

		anyInWindow := false
		for _, p := range pulls {
			if p.MergedAt.Before(since) {
				continue
			}
			anyInWindow = true

			s.detailDelay()
			files, err := s.api.ListPullFiles(ctx, feed.Owner, feed.Repo, p.Number)
			if err != nil {
				if fatalFetch(err) {
					return nil, err
				}
				s.logger.Warn("Skipping pull request, file list failed", map[string]interface{}{
					"number": p.Number,
					"error":  err.Error(),
				})
				continue
			}
			id := prID(p.Number)
			for _, f := range files {
				if e := s.eventFromFile(feed, f, id, p.Title, p.Author, p.MergedAt, p.URL); e != nil {
					out = append(out, e)
				}
			}
		}

		// The list is ordered by recent activity; a page with nothing in
		// the window means older pages have nothing either.
		if len(pulls) < s.api.PageSize() || !anyInWindow {
			break
		}
	}
	return out, nil
}

// eventFromFile builds one change event, or nil when the file is outside
// the feed's tracked prefix.
func (s *Source) eventFromFile(feed *config.Feed, f github.FileChange, id, message, author string, ts time.Time, url string) *events.ChangeEvent {
	if feed.DocsPrefix != "" && !strings.HasPrefix(f.Path, feed.DocsPrefix) {
		return nil
	}
	return &events.ChangeEvent{
		ID:          id,
		Path:        f.Path,
		Status:      events.Status(f.Status),
		Additions:   f.Additions,
		Deletions:   f.Deletions,
		Timestamp:   ts,
		Author:      author,
		Message:     message,
		SourceURL:   url,
		PatchSample: boundPatch(f.Patch, maxPatchLines),
	}
}

func (s *Source) detailDelay() {
	if s.cfg.DetailDelayMs > 0 {
		s.sleep(time.Duration(s.cfg.DetailDelayMs) * time.Millisecond)
	}
}

// fatalFetch reports whether a per-item failure also dooms every later
// request in this run.
func fatalFetch(err error) bool {
	if runErr, ok := err.(*errors.RunError); ok {
		return runErr.Code == errors.AuthFailed || runErr.Code == errors.RateLimited
	}
	return false
}

func prID(number int) string {
	return "pr-" + strconv.Itoa(number)
}

func boundPatch(patch string, maxLines int) string {
	if patch == "" {
		return ""
	}
	lines := strings.Split(patch, "\n")
	if len(lines) <= maxLines {
		return patch
	}
	return strings.Join(lines[:maxLines], "\n")
}
