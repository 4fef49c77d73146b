package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"docpulse/internal/updates"
)

func sampleUpdates() []updates.Update {
	return []updates.Update{
		{
			RowKey:   "abc",
			Title:    "rewrite auth docs",
			Category: "Security",
			Date:     time.Date(2026, 5, 5, 14, 0, 0, 0, time.UTC),
			URL:      "https://example.com/auth",
			Summary:  "Token docs rewritten",
			Impact:   "Re-read token setup",
		},
		{
			RowKey:   "def",
			Title:    "expand quickstart",
			Category: "Getting Started",
			Date:     time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC),
			URL:      "https://example.com/quickstart",
			Summary:  "New install section",
		},
		{
			RowKey:   "ghi",
			Title:    "older change",
			Category: "General",
			Date:     time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC),
			URL:      "https://example.com/other",
			Summary:  "s",
		},
	}
}

func TestRenderGroupsByDay(t *testing.T) {
	f := Render("Documentation Updates", sampleUpdates())
	md := string(f.Markdown)

	first := strings.Index(md, "### 2026-05-05")
	second := strings.Index(md, "### 2026-05-03")
	if first < 0 || second < 0 {
		t.Fatalf("missing day headings:\n%s", md)
	}
	if first > second {
		t.Error("days not ordered newest first")
	}
	if n := strings.Count(md, "### 2026-05-05"); n != 1 {
		t.Errorf("2026-05-05 heading appears %d times, want 1", n)
	}

	for _, want := range []string{
		"## Documentation Updates",
		"[rewrite auth docs](https://example.com/auth)",
		"`Security`",
		"Token docs rewritten",
		"_Re-read token setup_",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("fragment missing %q:\n%s", want, md)
		}
	}
}

func TestRenderEmptyList(t *testing.T) {
	f := Render("Documentation Updates", nil)
	if !strings.Contains(string(f.Markdown), "No recent changes.") {
		t.Errorf("empty fragment = %q", f.Markdown)
	}
	if f.Digest == "" {
		t.Error("empty fragment still needs a digest")
	}
}

func TestDigestStability(t *testing.T) {
	a := Render("t", sampleUpdates())
	b := Render("t", sampleUpdates())
	if a.Digest != b.Digest {
		t.Errorf("digests differ for identical input: %s vs %s", a.Digest, b.Digest)
	}
	if len(a.Digest) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a.Digest))
	}

	changed := sampleUpdates()
	changed[0].Summary = "different"
	if c := Render("t", changed); c.Digest == a.Digest {
		t.Error("digest unchanged after content change")
	}
}

func TestRenderEscapesBracketsInTitle(t *testing.T) {
	f := Render("t", []updates.Update{{
		Title: "[docs] fix auth", URL: "https://example.com/a",
		Date: time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC),
	}})
	if !strings.Contains(string(f.Markdown), `[\[docs\] fix auth](https://example.com/a)`) {
		t.Errorf("fragment = %s", f.Markdown)
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	f := Render("t", sampleUpdates())

	if err := WriteArtifact(dir, "docs", f, true); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "docs.md"))
	if err != nil {
		t.Fatalf("read fragment: %v", err)
	}
	if !bytes.Equal(raw, f.Markdown) {
		t.Error("written fragment differs from rendered bytes")
	}

	gz, err := os.Open(filepath.Join(dir, "docs.md.gz"))
	if err != nil {
		t.Fatalf("open gzip artifact: %v", err)
	}
	defer gz.Close()
	zr, err := gzip.NewReader(gz)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(zr); err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), f.Markdown) {
		t.Error("gzip artifact does not round-trip to the fragment")
	}
}

func TestWriteArtifactWithoutGzip(t *testing.T) {
	dir := t.TempDir()
	if err := WriteArtifact(dir, "docs", Render("t", nil), false); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs.md.gz")); !os.IsNotExist(err) {
		t.Error("gzip artifact written without being requested")
	}
}
