// Package render turns a merged update list into a markdown fragment
// suitable for embedding in a site, plus a content digest so callers can
// detect whether anything actually changed between runs.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"docpulse/internal/updates"
)

// Fragment is one rendered output with its content digest
type Fragment struct {
	Markdown []byte
	// Digest is the hex sha256 of Markdown
	Digest string
}

// Render produces the markdown fragment for a feed. Updates are grouped
// under per-day headings, newest day first; input order within a day is
// preserved (the merger already sorts by date descending). Rendering is
// deterministic: identical input yields an identical digest.
func Render(feedTitle string, list []updates.Update) Fragment {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n", feedTitle)

	if len(list) == 0 {
		b.WriteString("\nNo recent changes.\n")
		return finish(b.String())
	}

	currentDay := ""
	for _, u := range list {
		day := u.Date.UTC().Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintf(&b, "\n### %s\n\n", day)
			currentDay = day
		}

		title := u.Title
		if title == "" {
			title = u.URL
		}
		if u.URL != "" {
			fmt.Fprintf(&b, "- **[%s](%s)**", escapeBrackets(title), u.URL)
		} else {
			fmt.Fprintf(&b, "- **%s**", escapeBrackets(title))
		}
		if u.Category != "" {
			fmt.Fprintf(&b, " `%s`", u.Category)
		}
		b.WriteString("\n")

		if u.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", u.Summary)
		}
		if u.Impact != "" {
			fmt.Fprintf(&b, "  _%s_\n", u.Impact)
		}
	}

	return finish(b.String())
}

func finish(markdown string) Fragment {
	data := []byte(markdown)
	sum := sha256.Sum256(data)
	return Fragment{
		Markdown: data,
		Digest:   hex.EncodeToString(sum[:]),
	}
}

// escapeBrackets keeps commit titles containing [tags] from breaking the
// markdown link syntax.
func escapeBrackets(s string) string {
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}

// WriteArtifact writes the fragment to <dir>/<name>.md and, when gzipped
// is set, a compressed sibling <name>.md.gz for static hosting.
func WriteArtifact(dir, name string, f Fragment, gzipped bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, name+".md")
	if err := os.WriteFile(path, f.Markdown, 0644); err != nil {
		return fmt.Errorf("failed to write fragment: %w", err)
	}

	if !gzipped {
		return nil
	}

	gzPath := path + ".gz"
	out, err := os.Create(gzPath)
	if err != nil {
		return fmt.Errorf("failed to create gzip artifact: %w", err)
	}
	defer out.Close()

	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to init gzip writer: %w", err)
	}
	zw.ModTime = time.Time{} // keep gzip output byte-stable for equal input
	if _, err := zw.Write(f.Markdown); err != nil {
		zw.Close()
		return fmt.Errorf("failed to compress fragment: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip artifact: %w", err)
	}
	return nil
}
