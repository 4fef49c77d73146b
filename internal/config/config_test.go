package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}

	if cfg.Window.Days != 7 {
		t.Errorf("Window.Days = %d, want 7", cfg.Window.Days)
	}
	if cfg.Window.FreshnessHours != 12 {
		t.Errorf("Window.FreshnessHours = %d, want 12", cfg.Window.FreshnessHours)
	}

	if cfg.Caps.DocsUpdates != 100 {
		t.Errorf("Caps.DocsUpdates = %d, want 100", cfg.Caps.DocsUpdates)
	}
	if cfg.Caps.Releases != 5 {
		t.Errorf("Caps.Releases = %d, want 5", cfg.Caps.Releases)
	}

	if cfg.Grouping.MinSharedWords != 2 {
		t.Errorf("Grouping.MinSharedWords = %d, want 2", cfg.Grouping.MinSharedWords)
	}
	if cfg.Grouping.MinWordLength != 4 {
		t.Errorf("Grouping.MinWordLength = %d, want 4", cfg.Grouping.MinWordLength)
	}

	if cfg.Noise.MinChangedLines != 3 {
		t.Errorf("Noise.MinChangedLines = %d, want 3", cfg.Noise.MinChangedLines)
	}

	if cfg.GitHub.BaseURL != "https://api.github.com" {
		t.Errorf("GitHub.BaseURL = %q", cfg.GitHub.BaseURL)
	}
	if cfg.GitHub.MaxPages <= 0 {
		t.Error("GitHub.MaxPages should be positive")
	}

	if !cfg.Enricher.Enabled {
		t.Error("Enricher should be enabled by default")
	}
	if cfg.Enricher.Provider != "anthropic" {
		t.Errorf("Enricher.Provider = %q, want anthropic", cfg.Enricher.Provider)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Window.Days != 7 {
		t.Errorf("Window.Days = %d, want default 7", cfg.Window.Days)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0755); err != nil {
		t.Fatal(err)
	}

	content := `{"version": 1, "window": {"days": 14, "freshnessHours": 6}, "caps": {"docsUpdates": 50, "releases": 3}}`
	if err := os.WriteFile(filepath.Join(dir, DirName, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Window.Days != 14 {
		t.Errorf("Window.Days = %d, want 14", cfg.Window.Days)
	}
	if cfg.Window.FreshnessHours != 6 {
		t.Errorf("FreshnessHours = %d, want 6", cfg.Window.FreshnessHours)
	}
	if cfg.Caps.DocsUpdates != 50 {
		t.Errorf("Caps.DocsUpdates = %d, want 50", cfg.Caps.DocsUpdates)
	}

	// Unspecified sections keep defaults
	if cfg.Grouping.MinSharedWords != 2 {
		t.Errorf("Grouping.MinSharedWords = %d, want default 2", cfg.Grouping.MinSharedWords)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Window.Days = 30
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Window.Days != 30 {
		t.Errorf("Window.Days = %d, want 30", loaded.Window.Days)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Days = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero window days should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Caps.Releases = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero release cap should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Version = 2
	if err := cfg.Validate(); err == nil {
		t.Error("unknown version should fail validation")
	}
}

func TestResolveTokenPrefersEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitHub.Token = "from-config"

	t.Setenv(TokenEnvVar, "from-env")
	if tok := cfg.ResolveToken(); tok != "from-env" {
		t.Errorf("token = %q, want from-env", tok)
	}

	t.Setenv(TokenEnvVar, "")
	if tok := cfg.ResolveToken(); tok != "from-config" {
		t.Errorf("token = %q, want from-config", tok)
	}
}
