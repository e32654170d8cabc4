package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate rejects documents the rest of the pipeline cannot act on.
func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("DOC_CONFIG_VERSION: unsupported config version %d", cfg.Version)
	}
	if cfg.Crawl.Limit <= 0 {
		return fmt.Errorf("DOC_CONFIG_CRAWL: limit must be positive, got %d", cfg.Crawl.Limit)
	}
	if cfg.Crawl.Duration != "" {
		d, err := time.ParseDuration(cfg.Crawl.Duration)
		if err != nil {
			return fmt.Errorf("DOC_CONFIG_CRAWL: invalid duration %q: %w", cfg.Crawl.Duration, err)
		}
		if d < 0 {
			return fmt.Errorf("DOC_CONFIG_CRAWL: duration must not be negative")
		}
	}
	if cfg.Ranking.MinScore < 0 || cfg.Ranking.MinScore > 100 {
		return fmt.Errorf("DOC_CONFIG_RANKING: min_score must be in [0,100], got %d", cfg.Ranking.MinScore)
	}
	for _, repo := range cfg.Crawl.KnownRepos {
		if strings.Count(repo, "/") != 1 {
			return fmt.Errorf("DOC_CONFIG_CRAWL: known repo %q is not owner/name", repo)
		}
	}
	return nil
}

// CrawlDuration parses the configured wall-clock budget. Zero means a
// single pass.
func (c CrawlConfig) CrawlDuration() time.Duration {
	if c.Duration == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Duration)
	if err != nil {
		return 0
	}
	return d
}
