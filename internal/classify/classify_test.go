package classify

import (
	"testing"

	"docpulse/internal/config"
)

func TestBuiltinRules(t *testing.T) {
	c := New(nil)

	tests := []struct {
		path string
		want string
	}{
		{"docs/getting-started/install.md", "Getting Started"},
		{"docs/QUICKSTART.md", "Getting Started"},
		{"docs/authentication/oauth.md", "Security"},
		{"docs/api-reference/errors.md", "Reference"},
		{"CHANGELOG.md", "Release Notes"},
		{"docs/migration/v2.md", "Migration"},
		{"docs/troubleshooting.md", "Troubleshooting"},
		{"docs/sdks/sdk-python.md", "SDKs"},
	}

	for _, tt := range tests {
		if got := c.CategoryOf(tt.path); got != tt.want {
			t.Errorf("CategoryOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDirectoryFallback(t *testing.T) {
	c := New(nil)

	tests := []struct {
		path string
		want string
	}{
		{"docs/concepts/tokens.md", "Concepts"},
		{"docs/tutorial/first-app.md", "Tutorial"},
		{"docs/how-to/deploy.md", "How-to Guide"},
		{"docs/guides/deploy.md", "How-to Guide"},
		{"docs/reference/limits.md", "Reference"},
	}

	for _, tt := range tests {
		if got := c.CategoryOf(tt.path); got != tt.want {
			t.Errorf("CategoryOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOrderedFirstMatchWins(t *testing.T) {
	c := New(nil)
	// Substring rules run before directory fallback: a changelog inside
	// /reference/ is still Release Notes.
	if got := c.CategoryOf("docs/reference/changelog.md"); got != "Release Notes" {
		t.Errorf("CategoryOf = %q, want Release Notes", got)
	}
}

func TestDefaultCategory(t *testing.T) {
	c := New(nil)
	if got := c.CategoryOf("docs/random/page.md"); got != DefaultCategory {
		t.Errorf("CategoryOf = %q, want %q", got, DefaultCategory)
	}
	if got := c.CategoryOf(""); got != DefaultCategory {
		t.Errorf("CategoryOf(\"\") = %q, want %q", got, DefaultCategory)
	}
}

func TestUserRulesPrecedeBuiltins(t *testing.T) {
	c := New([]config.CategoryRule{
		{Contains: "changelog", Category: "History"},
	})
	if got := c.CategoryOf("CHANGELOG.md"); got != "History" {
		t.Errorf("CategoryOf = %q, want user-defined History", got)
	}
}
