// Package errors defines stable error codes for docpulse run failures.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// AuthFailed indicates a missing or rejected GitHub credential
	AuthFailed ErrorCode = "AUTH_FAILED"
	// RateLimited indicates the GitHub API rate limit was exhausted
	RateLimited ErrorCode = "RATE_LIMITED"
	// FetchFailed indicates a non-2xx response from the source-control API
	FetchFailed ErrorCode = "FETCH_FAILED"
	// EnrichmentUnavailable indicates the summarization provider is not
	// configured or its call failed; callers fall back to heuristics
	EnrichmentUnavailable ErrorCode = "ENRICHMENT_UNAVAILABLE"
	// ConstructionFailed indicates an Update could not be built from a session
	ConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
	// StoreFailed indicates the persisted state could not be read or written
	StoreFailed ErrorCode = "STORE_FAILED"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// FeedUnknown indicates a feed name that is not defined in feeds.toml
	FeedUnknown ErrorCode = "FEED_UNKNOWN"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// SetEnv suggests exporting an environment variable
	SetEnv FixActionType = "set-env"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// RunError represents a docpulse error with code, message, and suggestions
type RunError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new RunError
func New(code ErrorCode, message string, cause error) *RunError {
	return &RunError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *RunError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *RunError) WithDetails(details interface{}) *RunError {
	e.Details = details
	return e
}

// Fatal reports whether the error aborts the whole run. Non-fatal codes
// degrade a single session or fall back to heuristic output.
func (e *RunError) Fatal() bool {
	switch e.Code {
	case EnrichmentUnavailable, ConstructionFailed:
		return false
	}
	return true
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	AuthFailed: {
		{
			Type:        SetEnv,
			Command:     "export DOCPULSE_GITHUB_TOKEN=<token>",
			Safe:        true,
			Description: "Provide a GitHub token with repo read access",
		},
	},
	RateLimited: {
		{
			Type:        RunCommand,
			Command:     "docpulse refresh --force",
			Safe:        true,
			Description: "Retry after the rate-limit reset time reported above",
		},
		{
			Type:        SetEnv,
			Command:     "export DOCPULSE_GITHUB_TOKEN=<token>",
			Safe:        true,
			Description: "Authenticated requests get a much higher rate limit",
		},
	},
	EnrichmentUnavailable: {
		{
			Type:        SetEnv,
			Command:     "export ANTHROPIC_API_KEY=<key>",
			Safe:        true,
			Description: "Configure the summarization provider, or disable enrichment in config.json",
		},
	},
	FeedUnknown: {
		{
			Type:        RunCommand,
			Command:     "docpulse status",
			Safe:        true,
			Description: "List the feeds defined in .docpulse/feeds.toml",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "docpulse init --force",
			Safe:        false,
			Description: "Rewrite default configuration (discards local edits)",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
