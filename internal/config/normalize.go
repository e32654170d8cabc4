package config

import "strings"

// Normalize fills defaults and dedupes list fields in place.
func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "~/.agskills"
	}
	if cfg.Crawl.Limit == 0 {
		cfg.Crawl.Limit = 50
	}
	if len(cfg.Crawl.Queries) == 0 {
		cfg.Crawl.Queries = DefaultQueries()
	} else {
		cfg.Crawl.Queries = dedupeTrimmed(cfg.Crawl.Queries)
	}
	if len(cfg.Crawl.KnownRepos) == 0 {
		cfg.Crawl.KnownRepos = DefaultKnownRepos()
	} else {
		cfg.Crawl.KnownRepos = dedupeTrimmed(cfg.Crawl.KnownRepos)
	}
	if cfg.Crawl.Duration == "0" {
		cfg.Crawl.Duration = ""
	}
	return cfg
}

func dedupeTrimmed(items []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
