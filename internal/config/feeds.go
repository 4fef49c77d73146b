package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FeedKind distinguishes the two pipeline instances
type FeedKind string

const (
	// KindDocs tracks documentation page edits
	KindDocs FeedKind = "docs"
	// KindReleases tracks release notes
	KindReleases FeedKind = "releases"
)

// FeedsFile represents the feeds.toml file
type FeedsFile struct {
	Feeds []Feed `toml:"feeds"`
}

// Feed describes one tracked repository feed. The docs feed and the
// releases feed are independent pipeline instances sharing the same code.
type Feed struct {
	// Name is the stable store key for this feed
	Name string `toml:"name"`

	// Kind selects cap defaults and the enrichment prompt shape
	Kind FeedKind `toml:"kind"`

	// Owner and Repo identify the tracked GitHub repository
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`

	// DocsPrefix restricts events to files under this path (e.g. "docs/")
	DocsPrefix string `toml:"docs_prefix,omitempty"`

	// SiteBaseURL is the published site root used to build canonical
	// document links from file paths
	SiteBaseURL string `toml:"site_base_url,omitempty"`

	// Cap overrides the per-kind retention cap when > 0
	Cap int `toml:"cap,omitempty"`

	// WindowDays overrides the global window when > 0
	WindowDays int `toml:"window_days,omitempty"`
}

// DocURL maps a repository file path to the canonical live document URL.
// Two distinct paths can resolve to one document (index pages, .md vs .mdx),
// which is what the grouper's URL match relies on.
func (f *Feed) DocURL(path string) string {
	p := strings.TrimPrefix(path, f.DocsPrefix)
	p = strings.TrimSuffix(p, ".mdx")
	p = strings.TrimSuffix(p, ".md")
	p = strings.TrimSuffix(p, "/index")
	p = strings.TrimSuffix(p, "/README")
	if f.SiteBaseURL == "" {
		return "https://github.com/" + f.Owner + "/" + f.Repo + "/blob/main/" + path
	}
	return strings.TrimSuffix(f.SiteBaseURL, "/") + "/" + strings.TrimPrefix(p, "/")
}

// EffectiveCap resolves the retention cap for this feed
func (f *Feed) EffectiveCap(caps CapsConfig) int {
	if f.Cap > 0 {
		return f.Cap
	}
	if f.Kind == KindReleases {
		return caps.Releases
	}
	return caps.DocsUpdates
}

// EffectiveWindowDays resolves the retention window for this feed
func (f *Feed) EffectiveWindowDays(window WindowConfig) int {
	if f.WindowDays > 0 {
		return f.WindowDays
	}
	return window.Days
}

// Validate checks a single feed definition
func (f *Feed) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("feed has no name")
	}
	if f.Kind != KindDocs && f.Kind != KindReleases {
		return fmt.Errorf("feed %q: kind must be %q or %q", f.Name, KindDocs, KindReleases)
	}
	if f.Owner == "" || f.Repo == "" {
		return fmt.Errorf("feed %q: owner and repo are required", f.Name)
	}
	return nil
}

// DefaultFeeds returns the scaffolded feeds.toml content for init
func DefaultFeeds() *FeedsFile {
	return &FeedsFile{
		Feeds: []Feed{
			{
				Name:       "docs-updates",
				Kind:       KindDocs,
				Owner:      "example",
				Repo:       "docs",
				DocsPrefix: "docs/",
			},
			{
				Name:  "releases",
				Kind:  KindReleases,
				Owner: "example",
				Repo:  "docs",
			},
		},
	}
}

// LoadFeeds reads <root>/.docpulse/feeds.toml. A missing file is an error:
// without feed definitions there is nothing to track.
func LoadFeeds(root string) (*FeedsFile, error) {
	path := filepath.Join(root, DirName, "feeds.toml")

	var ff FeedsFile
	if _, err := toml.DecodeFile(path, &ff); err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}

	if len(ff.Feeds) == 0 {
		return nil, fmt.Errorf("feeds.toml defines no feeds")
	}

	seen := make(map[string]bool)
	for i := range ff.Feeds {
		f := &ff.Feeds[i]
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate feed name %q", f.Name)
		}
		seen[f.Name] = true
	}

	return &ff, nil
}

// Save writes the feeds file to <root>/.docpulse/feeds.toml
func (ff *FeedsFile) Save(root string) error {
	path := filepath.Join(root, DirName, "feeds.toml")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(ff)
}

// Get returns the feed with the given name, or nil
func (ff *FeedsFile) Get(name string) *Feed {
	for i := range ff.Feeds {
		if ff.Feeds[i].Name == name {
			return &ff.Feeds[i]
		}
	}
	return nil
}
