package noise

import "regexp"

// AuthorPattern flags bot and automation accounts by case-insensitive
// substring match against the author login/name.
type AuthorPattern struct {
	Name        string
	Substring   string
	Description string
	Examples    []string // For testing
}

// MessagePattern flags merge commits and trivial-edit vocabulary.
type MessagePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Description string
	Examples    []string // For testing
}

// BuiltinAuthorPatterns contains the builtin bot-author patterns.
// Matching is deliberately narrow: dropping a meaningful change is worse
// than letting a bot commit through for the enricher to reject.
var BuiltinAuthorPatterns = []AuthorPattern{
	{
		Name:        "generic_bot_suffix",
		Substring:   "bot",
		Description: "Accounts containing 'bot' (dependabot, renovate-bot, github-actions[bot])",
		Examples:    []string{"dependabot[bot]", "renovate-bot"},
	},
	{
		Name:        "github_actions",
		Substring:   "actions",
		Description: "GitHub Actions automation",
		Examples:    []string{"github-actions[bot]"},
	},
	{
		Name:        "web_flow",
		Substring:   "web-flow",
		Description: "GitHub web merge-button committer",
	},
	{
		Name:        "renovate",
		Substring:   "renovate",
		Description: "Renovate dependency automation",
	},
	{
		Name:        "dependabot",
		Substring:   "dependabot",
		Description: "Dependabot dependency automation",
	},
}

// BuiltinMessagePatterns contains the builtin trivial-message patterns,
// checked in order against the lower-cased message.
var BuiltinMessagePatterns = []MessagePattern{
	{
		Name:        "merge_pull_request",
		Regex:       regexp.MustCompile(`^merge pull request`),
		Description: "GitHub merge commits",
		Examples:    []string{"Merge pull request #42 from acme/fix"},
	},
	{
		Name:        "merge_generic",
		Regex:       regexp.MustCompile(`^merge\b`),
		Description: "Generic merge commits",
		Examples:    []string{"Merge branch 'main' into feature"},
	},
	{
		Name:        "sync",
		Regex:       regexp.MustCompile(`^sync\b`),
		Description: "Branch/content sync commits",
	},
	{
		// Anchored to a fix-style leading clause: a message merely
		// mentioning the word ("document the export format options")
		// must not be dropped.
		Name:        "typo",
		Regex:       regexp.MustCompile(`^(fix(es|ed)?|correct(s|ed)?)\b.*\btypos?\b|^typos?\b`),
		Description: "Typo fixes",
		Examples:    []string{"fix typo in auth guide", "typos"},
	},
	{
		Name:        "grammar",
		Regex:       regexp.MustCompile(`^(fix(es|ed)?|correct(s|ed)?|improve(s|d)?)\b.*\bgrammar\b|^grammar\b`),
		Description: "Grammar-only edits",
		Examples:    []string{"fix grammar in intro"},
	},
	{
		Name:        "formatting",
		Regex:       regexp.MustCompile(`^(fix(es|ed)?|clean(s|ed)?( up)?)\b.*\bformat(ting)?\b|^format(ting)?\b`),
		Description: "Formatting-only edits",
		Examples:    []string{"fix formatting in tables", "formatting"},
	},
	{
		Name:        "link_fix",
		Regex:       regexp.MustCompile(`\b(fix|fixed|broken)\s+links?\b|\blinks?\s+fix\b`),
		Description: "Link fixes",
		Examples:    []string{"fix broken link"},
	},
	{
		Name:        "chore",
		Regex:       regexp.MustCompile(`^chore\b|^chore\(`),
		Description: "Conventional-commit chores",
		Examples:    []string{"chore: bump deps"},
	},
	{
		Name:        "readme_only",
		Regex:       regexp.MustCompile(`^update readme(\.md)?$`),
		Description: "Bare README touch-ups",
	},
	{
		Name:        "whitespace",
		Regex:       regexp.MustCompile(`^(fix(es|ed)?|remove(s|d)?|strip(s|ped)?|trim(s|med)?)\b.*\bwhitespace\b|^whitespace\b`),
		Description: "Whitespace-only edits",
		Examples:    []string{"remove trailing whitespace"},
	},
}

// nonContentExtensions lists file suffixes that never carry documentation
// content on their own.
var nonContentExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
	".css", ".scss", ".woff", ".woff2", ".ttf",
	".lock", ".sum",
	".yml", ".yaml", ".toml", ".json",
}
