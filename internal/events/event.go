// Package events defines the change-event model shared by the pipeline
// stages. A ChangeEvent is one file touched by one commit or pull request;
// it is immutable once fetched and lives only for a single pipeline run.
package events

import (
	"strings"
	"time"
)

// Status of a file within a change
type Status string

const (
	// StatusAdded for newly created files
	StatusAdded Status = "added"
	// StatusModified for edited files
	StatusModified Status = "modified"
	// StatusRemoved for deleted files
	StatusRemoved Status = "removed"
)

// ChangeEvent is one file-level modification attributed to a single commit
// or pull request.
type ChangeEvent struct {
	// ID is the immutable upstream identifier (commit SHA or "pr-<n>")
	ID string

	// Path is the repository file path
	Path string

	// Status is added/modified/removed
	Status Status

	// Additions and Deletions are the file-level line counts
	Additions int
	Deletions int

	// Timestamp is the committer or merge time
	Timestamp time.Time

	// Author is the login or display name of the author
	Author string

	// Message is the commit message or PR title
	Message string

	// SourceURL is the upstream permalink
	SourceURL string

	// PatchSample is a bounded excerpt of added/removed lines, may be empty
	PatchSample string
}

// TotalLines returns additions plus deletions
func (e *ChangeEvent) TotalLines() int {
	return e.Additions + e.Deletions
}

// Day returns the UTC calendar day of the event
func (e *ChangeEvent) Day() string {
	return e.Timestamp.UTC().Format("2006-01-02")
}

// IsMarkdown reports whether the path looks like a markdown document
func (e *ChangeEvent) IsMarkdown() bool {
	lower := strings.ToLower(e.Path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".mdx")
}

// ParentDir returns the directory portion of the path, without a trailing
// slash, or "" for top-level files.
func (e *ChangeEvent) ParentDir() string {
	idx := strings.LastIndex(e.Path, "/")
	if idx < 0 {
		return ""
	}
	return e.Path[:idx]
}

// MessageTokens returns the lower-cased words of the message longer than
// minLen characters. Used by the grouper's relatedness heuristic.
func (e *ChangeEvent) MessageTokens(minLen int) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(e.Message)) {
		w = strings.Trim(w, ".,;:!?()[]`'\"")
		if len(w) >= minLen {
			tokens[w] = true
		}
	}
	return tokens
}
