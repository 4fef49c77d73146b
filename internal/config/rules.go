package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesFile represents the optional .docpulse/rules.yaml overrides.
// User rules are checked ahead of the builtin tables, so a site can add
// its own bot accounts or category mappings without a rebuild.
type RulesFile struct {
	Noise      NoiseRules     `yaml:"noise"`
	Categories []CategoryRule `yaml:"categories"`
}

// NoiseRules holds extra noise-filter patterns
type NoiseRules struct {
	// BotAuthors are case-insensitive substrings matched against the
	// author login/name
	BotAuthors []string `yaml:"botAuthors"`

	// TrivialMessages are regular expressions matched against the
	// commit/PR message
	TrivialMessages []string `yaml:"trivialMessages"`
}

// CategoryRule maps a path substring to a category
type CategoryRule struct {
	Contains string `yaml:"contains"`
	Category string `yaml:"category"`
}

// LoadRules reads <root>/.docpulse/rules.yaml. A missing file yields an
// empty rule set, not an error.
func LoadRules(root string) (*RulesFile, error) {
	path := filepath.Join(root, DirName, "rules.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RulesFile{}, nil
		}
		return nil, fmt.Errorf("load rules: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules.yaml: %w", err)
	}

	for _, r := range rf.Categories {
		if r.Contains == "" || r.Category == "" {
			return nil, fmt.Errorf("rules.yaml: category rules need both 'contains' and 'category'")
		}
	}

	return &rf, nil
}
