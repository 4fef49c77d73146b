package main

import (
	"os"

	"docpulse/internal/config"
	"docpulse/internal/enrich"
	"docpulse/internal/errors"
	"docpulse/internal/github"
	"docpulse/internal/logging"
	"docpulse/internal/pipeline"
	"docpulse/internal/store"
)

// anthropicKeyEnvVar holds the summarization provider credential
const anthropicKeyEnvVar = "ANTHROPIC_API_KEY"

// loadSetup reads config, feeds and rules from the workspace root.
func loadSetup() (*config.Config, *config.FeedsFile, *config.RulesFile, *logging.Logger, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, nil, nil, nil, errors.New(errors.ConfigInvalid, "failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, errors.New(errors.ConfigInvalid, "invalid configuration", err)
	}

	logger := newLogger(cfg)

	feeds, err := config.LoadFeeds(rootFlag)
	if err != nil {
		return nil, nil, nil, nil, errors.New(errors.ConfigInvalid, "failed to load feeds", err)
	}

	rules, err := config.LoadRules(rootFlag)
	if err != nil {
		return nil, nil, nil, nil, errors.New(errors.ConfigInvalid, "failed to load rules", err)
	}

	return cfg, feeds, rules, logger, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(level),
	})
}

// selectFeeds resolves the --feed flag against the feed definitions. An
// empty name selects every feed.
func selectFeeds(feeds *config.FeedsFile, name string) ([]config.Feed, error) {
	if name == "" {
		return feeds.Feeds, nil
	}
	f := feeds.Get(name)
	if f == nil {
		return nil, errors.New(errors.FeedUnknown, "no feed named "+name, nil)
	}
	return []config.Feed{*f}, nil
}

// buildRunner assembles the pipeline for the loaded configuration.
func buildRunner(cfg *config.Config, rules *config.RulesFile, db *store.DB, logger *logging.Logger) *pipeline.Runner {
	client := github.NewClient(cfg.GitHub, cfg.ResolveToken(), nil)
	source := pipeline.NewSource(client, cfg.GitHub, logger)

	var provider enrich.Provider
	if cfg.Enricher.Enabled && cfg.Enricher.Provider == "anthropic" {
		if key := os.Getenv(anthropicKeyEnvVar); key != "" {
			provider = enrich.NewAnthropicProvider(cfg.Enricher, key)
		} else {
			logger.Warn("Enrichment enabled but no API key set, using heuristic summaries", map[string]interface{}{
				"env": anthropicKeyEnvVar,
			})
		}
	}
	enricher := enrich.New(provider, cfg.Enricher.MaxSampleLines, logger)

	return pipeline.NewRunner(cfg, rules, source, enricher, db, logger)
}
