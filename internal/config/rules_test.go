package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesMissingFile(t *testing.T) {
	dir := t.TempDir()

	rf, err := LoadRules(dir)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rf.Noise.BotAuthors) != 0 || len(rf.Categories) != 0 {
		t.Error("missing rules.yaml should yield empty rules")
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0755); err != nil {
		t.Fatal(err)
	}

	content := `
noise:
  botAuthors:
    - acme-release-bot
  trivialMessages:
    - '^bump '
categories:
  - contains: /changelog/
    category: Release Notes
`
	if err := os.WriteFile(filepath.Join(dir, DirName, "rules.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadRules(dir)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	if len(rf.Noise.BotAuthors) != 1 || rf.Noise.BotAuthors[0] != "acme-release-bot" {
		t.Errorf("BotAuthors = %v", rf.Noise.BotAuthors)
	}
	if len(rf.Categories) != 1 || rf.Categories[0].Category != "Release Notes" {
		t.Errorf("Categories = %v", rf.Categories)
	}
}

func TestLoadRulesRejectsIncompleteCategory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0755); err != nil {
		t.Fatal(err)
	}

	content := "categories:\n  - contains: /x/\n"
	if err := os.WriteFile(filepath.Join(dir, DirName, "rules.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRules(dir); err == nil {
		t.Error("category rule without a category should be rejected")
	}
}
