// Package enrich asks a summarization provider to describe and classify
// grouped change sessions. The provider call is strictly best-effort: any
// transport or parsing failure yields an empty verdict set and the caller
// falls back to heuristic summaries. The run never fails here.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"docpulse/internal/group"
	"docpulse/internal/jsonarr"
	"docpulse/internal/logging"
)

// Decision is the provider's keep/skip call for one session
type Decision string

const (
	// Keep means the session is worth surfacing
	Keep Decision = "keep"
	// Skip means the session is noise the filter missed
	Skip Decision = "skip"
)

// Verdict is the per-session judgment from the provider
type Verdict struct {
	Decision Decision
	Category string
	Summary  string
	Impact   string
	Score    float64
}

// Provider is a summarization backend. Complete returns free-form text
// expected to contain one JSON array.
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

// Enricher batches sessions into one provider call per run.
type Enricher struct {
	provider       Provider
	logger         *logging.Logger
	maxSampleLines int
}

// New creates an enricher. provider may be nil, in which case Classify
// always returns no verdicts and callers use heuristics.
func New(provider Provider, maxSampleLines int, logger *logging.Logger) *Enricher {
	if maxSampleLines <= 0 {
		maxSampleLines = 20
	}
	return &Enricher{
		provider:       provider,
		logger:         logger,
		maxSampleLines: maxSampleLines,
	}
}

// Enabled reports whether a provider is configured
func (e *Enricher) Enabled() bool {
	return e.provider != nil
}

// responseItem is the expected per-session shape inside the JSON array.
// Score is a pointer so an explicit 0 confidence stays distinguishable
// from an absent field.
type responseItem struct {
	Key      string   `json:"key"`
	Summary  string   `json:"summary"`
	Impact   string   `json:"impact"`
	Category string   `json:"category"`
	Score    *float64 `json:"score"`
}

// Classify sends one batched request describing all sessions and returns
// verdicts keyed by the canonical session key. Sessions absent from the
// result were skipped by the provider (or the call failed); the canonical
// key is never rewritten from response content.
func (e *Enricher) Classify(ctx context.Context, sessions []*group.Session, releaseStyle bool) map[string]Verdict {
	verdicts := make(map[string]Verdict)
	if e.provider == nil || len(sessions) == 0 {
		return verdicts
	}

	known := make(map[string]string, len(sessions)) // normalized -> canonical
	for _, s := range sessions {
		known[normalizeKey(s.Key)] = s.Key
	}

	raw, err := e.provider.Complete(ctx, systemPrompt(releaseStyle), e.buildPrompt(sessions))
	if err != nil {
		e.logger.Warn("Enrichment call failed, falling back to heuristics", map[string]interface{}{
			"provider": e.provider.Name(),
			"error":    err.Error(),
		})
		return verdicts
	}

	var items []responseItem
	if err := jsonarr.Unmarshal(raw, &items); err != nil {
		e.logger.Warn("Enrichment response had no parsable JSON array", map[string]interface{}{
			"provider": e.provider.Name(),
			"error":    err.Error(),
		})
		return verdicts
	}

	for _, item := range items {
		canonical, ok := known[normalizeKey(item.Key)]
		if !ok {
			e.logger.Warn("Enrichment returned unknown session key, discarding", map[string]interface{}{
				"key": item.Key,
			})
			continue
		}

		v := Verdict{
			Decision: Keep,
			Category: strings.TrimSpace(item.Category),
			Summary:  strings.TrimSpace(item.Summary),
			Impact:   strings.TrimSpace(item.Impact),
			Score:    1.0,
		}
		if item.Score != nil {
			v.Score = *item.Score
		}
		if v.Category == "" {
			v.Category = "General"
		}
		verdicts[canonical] = v
	}
	return verdicts
}

// normalizeKey trims and lower-cases a session key for matching. The
// provider echoes keys back with unpredictable casing.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func systemPrompt(releaseStyle bool) string {
	if releaseStyle {
		return "You review version-control activity on release notes. " +
			"For each change group worth surfacing, write a one-sentence release-note style summary. " +
			"Respond with only a JSON array of objects {key, summary, impact, category, score}. " +
			"Omit groups that are trivial. score is your confidence between 0 and 1. " +
			"Use the key field exactly as given."
	}
	return "You review version-control activity on a documentation site. " +
		"For each change group worth surfacing, describe what changed for readers of that page. " +
		"Respond with only a JSON array of objects {key, summary, impact, category, score}. " +
		"Omit groups that are trivial (typo-level, formatting, tooling). " +
		"score is your confidence between 0 and 1. Use the key field exactly as given."
}

// buildPrompt renders the batch description: one block per session with
// its key, distinct subjects, aggregate counts and a bounded content
// sample.
func (e *Enricher) buildPrompt(sessions []*group.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Change groups (%d):\n", len(sessions))

	for i, s := range sessions {
		fmt.Fprintf(&b, "\n--- group %d ---\nkey: %s\n", i+1, s.Key)
		fmt.Fprintf(&b, "subjects:\n")
		for _, msg := range s.DistinctMessages() {
			fmt.Fprintf(&b, "  - %s\n", firstLine(msg))
		}
		fmt.Fprintf(&b, "lines: +%d/-%d across %d changes\n", s.Additions(), s.Deletions(), len(s.Events))

		sample := e.sampleLines(s)
		if len(sample) > 0 {
			fmt.Fprintf(&b, "sample:\n")
			for _, line := range sample {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
	}
	return b.String()
}

// sampleLines collects up to maxSampleLines added/removed lines across the
// session's patch excerpts.
func (e *Enricher) sampleLines(s *group.Session) []string {
	var out []string
	for _, ev := range s.Events {
		if ev.PatchSample == "" {
			continue
		}
		for _, line := range strings.Split(ev.PatchSample, "\n") {
			if len(out) >= e.maxSampleLines {
				return out
			}
			if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
				if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
					continue
				}
				out = append(out, strings.TrimSpace(line))
			}
		}
	}
	return out
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
