// Package classify maps documentation file paths to semantic categories.
// Classification is an ordered substring-rule table with a directory-shape
// fallback; it is deterministic and total.
package classify

import (
	"strings"

	"docpulse/internal/config"
)

// DefaultCategory is returned when no rule matches
const DefaultCategory = "General"

// Rule maps a path substring to a category
type Rule struct {
	Contains string
	Category string
}

// BuiltinRules are checked in order by first match against the lower-cased
// path.
var BuiltinRules = []Rule{
	{Contains: "getting-started", Category: "Getting Started"},
	{Contains: "quickstart", Category: "Getting Started"},
	{Contains: "installation", Category: "Getting Started"},
	{Contains: "authentication", Category: "Security"},
	{Contains: "security", Category: "Security"},
	{Contains: "api-reference", Category: "Reference"},
	{Contains: "changelog", Category: "Release Notes"},
	{Contains: "release-notes", Category: "Release Notes"},
	{Contains: "releases", Category: "Release Notes"},
	{Contains: "migration", Category: "Migration"},
	{Contains: "upgrade", Category: "Migration"},
	{Contains: "troubleshoot", Category: "Troubleshooting"},
	{Contains: "faq", Category: "Troubleshooting"},
	{Contains: "integration", Category: "Integrations"},
	{Contains: "sdk", Category: "SDKs"},
	{Contains: "cli", Category: "CLI"},
}

// directoryRules are the fallback directory-shape mappings
var directoryRules = []Rule{
	{Contains: "/concepts/", Category: "Concepts"},
	{Contains: "/tutorial/", Category: "Tutorial"},
	{Contains: "/tutorials/", Category: "Tutorial"},
	{Contains: "/how-to/", Category: "How-to Guide"},
	{Contains: "/guides/", Category: "How-to Guide"},
	{Contains: "/reference/", Category: "Reference"},
}

// Classifier assigns categories to paths.
type Classifier struct {
	rules []Rule
}

// New builds a classifier. User rules from rules.yaml take precedence over
// the builtin table.
func New(userRules []config.CategoryRule) *Classifier {
	c := &Classifier{}
	for _, r := range userRules {
		c.rules = append(c.rules, Rule{
			Contains: strings.ToLower(r.Contains),
			Category: r.Category,
		})
	}
	c.rules = append(c.rules, BuiltinRules...)
	return c
}

// CategoryOf returns the category for a file path. It always returns a
// non-empty category.
func (c *Classifier) CategoryOf(path string) string {
	lower := strings.ToLower(path)

	for _, r := range c.rules {
		if strings.Contains(lower, r.Contains) {
			return r.Category
		}
	}
	for _, r := range directoryRules {
		if strings.Contains(lower, r.Contains) {
			return r.Category
		}
	}
	return DefaultCategory
}
