package pipeline

import (
	"context"
	"time"

	"docpulse/internal/classify"
	"docpulse/internal/config"
	"docpulse/internal/enrich"
	"docpulse/internal/events"
	"docpulse/internal/group"
	"docpulse/internal/logging"
	"docpulse/internal/noise"
	"docpulse/internal/store"
	"docpulse/internal/updates"
)

// EventSource abstracts the fetch stage
type EventSource interface {
	FetchEvents(ctx context.Context, feed *config.Feed, since time.Time) ([]*events.ChangeEvent, error)
}

// Storage is the persistence surface the runner needs
type Storage interface {
	LoadUpdates(feed string) ([]updates.Update, error)
	LastFetch(feed string) (time.Time, error)
	SaveUpdates(feed string, list []updates.Update, fetchedAt time.Time) error
	RecordRun(run store.RunRecord) error
}

// Result summarizes one refresh run
type Result struct {
	Feed          string
	Skipped       bool
	EventsFetched int
	Sessions      int
	UpdatesStored int
}

// Runner drives the refresh cycle for feeds.
type Runner struct {
	cfg      *config.Config
	rules    *config.RulesFile
	source   EventSource
	enricher *enrich.Enricher
	storage  Storage
	logger   *logging.Logger
	now      func() time.Time
}

// NewRunner wires the pipeline stages together. enricher may be built
// around a nil provider, in which case summaries are heuristic.
func NewRunner(cfg *config.Config, rules *config.RulesFile, source EventSource, enricher *enrich.Enricher, storage Storage, logger *logging.Logger) *Runner {
	if rules == nil {
		rules = &config.RulesFile{}
	}
	return &Runner{
		cfg:      cfg,
		rules:    rules,
		source:   source,
		enricher: enricher,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one refresh cycle for a feed. force bypasses the
// staleness gate. A fatal fetch error aborts before any store write; the
// previously stored list stays untouched.
func (r *Runner) Run(ctx context.Context, feed *config.Feed, force bool) (*Result, error) {
	started := r.now()

	lastFetch, err := r.storage.LastFetch(feed.Name)
	if err != nil {
		return nil, err
	}

	freshness := time.Duration(r.cfg.Window.FreshnessHours) * time.Hour
	if !force && !updates.ShouldRun(lastFetch, started, freshness) {
		r.logger.Info("Feed is fresh, skipping", map[string]interface{}{
			"feed":       feed.Name,
			"last_fetch": lastFetch.Format(time.RFC3339),
		})
		r.recordRun(feed, started, 0, 0, store.RunSkipped, "")
		return &Result{Feed: feed.Name, Skipped: true}, nil
	}

	windowStart := updates.WindowStart(started, feed.EffectiveWindowDays(r.cfg.Window))

	batch, err := r.source.FetchEvents(ctx, feed, windowStart)
	if err != nil {
		r.recordRun(feed, started, 0, 0, store.RunFailed, err.Error())
		return nil, err
	}

	kept := r.filterNoise(batch)
	sessions := group.New(r.cfg.Grouping, feed.DocURL).Group(kept)
	newUpdates := r.buildUpdates(ctx, feed, sessions)

	existing, err := r.storage.LoadUpdates(feed.Name)
	if err != nil {
		r.recordRun(feed, started, len(batch), 0, store.RunFailed, err.Error())
		return nil, err
	}

	merged := updates.Merge(newUpdates, existing, windowStart, feed.EffectiveCap(r.cfg.Caps))
	if err := r.storage.SaveUpdates(feed.Name, merged, started); err != nil {
		r.recordRun(feed, started, len(batch), 0, store.RunFailed, err.Error())
		return nil, err
	}

	r.recordRun(feed, started, len(batch), len(merged), store.RunOK, "")
	r.logger.Info("Refresh complete", map[string]interface{}{
		"feed":     feed.Name,
		"events":   len(batch),
		"sessions": len(sessions),
		"stored":   len(merged),
	})

	return &Result{
		Feed:          feed.Name,
		EventsFetched: len(batch),
		Sessions:      len(sessions),
		UpdatesStored: len(merged),
	}, nil
}

// filterNoise drops noisy events. Events sharing one upstream change are
// judged together so a sweep of tiny per-file edits still reads as one
// substantial change.
func (r *Runner) filterNoise(batch []*events.ChangeEvent) []*events.ChangeEvent {
	filter := noise.NewFilter(r.cfg.Noise, r.rules.Noise)

	byChange := make(map[string][]*events.ChangeEvent)
	var order []string
	for _, e := range batch {
		if e == nil {
			continue
		}
		if _, ok := byChange[e.ID]; !ok {
			order = append(order, e.ID)
		}
		byChange[e.ID] = append(byChange[e.ID], e)
	}

	var kept []*events.ChangeEvent
	for _, id := range order {
		changeGroup := byChange[id]
		if filter.IsNoise(changeGroup[0]) || filter.IsNoiseGroup(changeGroup) {
			r.logger.Debug("Dropping noisy change", map[string]interface{}{
				"change": id,
				"files":  len(changeGroup),
			})
			continue
		}
		kept = append(kept, changeGroup...)
	}
	return kept
}

// buildUpdates turns sessions into update records. Enrichment verdicts
// drive the summary when available; a failed or disabled enricher falls
// back to heuristic summaries for every session, while a successful
// enrichment that omits a session means the provider judged it trivial.
func (r *Runner) buildUpdates(ctx context.Context, feed *config.Feed, sessions []*group.Session) []updates.Update {
	classifier := classify.New(r.rules.Categories)

	var verdicts map[string]enrich.Verdict
	enriched := false
	if r.enricher != nil && r.enricher.Enabled() {
		verdicts = r.enricher.Classify(ctx, sessions, feed.Kind == config.KindReleases)
		enriched = len(verdicts) > 0
	}

	var out []updates.Update
	for _, s := range sessions {
		category := classifier.CategoryOf(s.Key)

		var v enrich.Verdict
		if enriched {
			var ok bool
			if v, ok = verdicts[s.Key]; !ok {
				r.logger.Debug("Session judged trivial by enricher", map[string]interface{}{
					"key": s.Key,
				})
				continue
			}
			if v.Decision == enrich.Skip {
				continue
			}
			// Path-based classification is more specific than the
			// provider's generic bucket.
			if v.Category == classify.DefaultCategory && category != classify.DefaultCategory {
				v.Category = category
			}
		} else {
			v = enrich.HeuristicVerdict(s, category)
		}

		out = append(out, updates.Update{
			PartitionKey: s.Earliest().Day(),
			RowKey:       rowKey(s),
			Title:        firstLine(s.Latest().Message),
			Category:     v.Category,
			Date:         s.Latest().Timestamp,
			URL:          s.URL,
			Summary:      v.Summary,
			Impact:       v.Impact,
			Commits:      s.CommitIDs(),
		})
	}
	return out
}

func (r *Runner) recordRun(feed *config.Feed, started time.Time, fetched, stored int, status store.RunStatus, errMsg string) {
	err := r.storage.RecordRun(store.RunRecord{
		Feed:          feed.Name,
		StartedAt:     started,
		FinishedAt:    r.now(),
		EventsFetched: fetched,
		UpdatesStored: stored,
		Status:        status,
		Error:         errMsg,
	})
	if err != nil {
		r.logger.Warn("Failed to record run history", map[string]interface{}{
			"feed":  feed.Name,
			"error": err.Error(),
		})
	}
}

// rowKey scopes the update identity by document. One commit can touch
// several documents that never group together; using the bare event ID
// would let the merger's identity dedup collapse their updates.
func rowKey(s *group.Session) string {
	return s.Latest().ID + ":" + s.Key
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
