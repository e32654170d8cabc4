package config

// Build metadata, injected at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Config is the frozen v1 global schema.
type Config struct {
	Version int           `toml:"version"`
	Storage StorageConfig `toml:"storage"`
	Crawl   CrawlConfig   `toml:"crawl"`
	Ranking RankingConfig `toml:"ranking"`
}

type StorageConfig struct {
	Root string `toml:"root"`
}

// CrawlConfig bounds a single discovery run.
type CrawlConfig struct {
	Queries    []string `toml:"queries,omitempty" json:"queries,omitempty"`
	KnownRepos []string `toml:"known_repos,omitempty" json:"knownRepos,omitempty"`
	Limit      int      `toml:"limit" json:"limit"`
	// Duration is the wall-clock budget, e.g. "30m". Empty or "0" means a
	// single pass with no time budget.
	Duration string `toml:"duration,omitempty" json:"duration,omitempty"`
}

type RankingConfig struct {
	MinScore int `toml:"min_score" json:"minScore"`
}
