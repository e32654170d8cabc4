package config

const (
	SchemaVersion = 1
)

// DefaultQueries are the repository-search phrases used when the config and
// CLI supply none.
func DefaultQueries() []string {
	return []string{
		"claude skills",
		"anthropic skills",
		"agent skills SKILL.md",
		"claude code skills",
		"llm skills collection",
		"awesome claude skills",
	}
}

// DefaultKnownRepos are repositories known to carry skill documents; the
// crawler visits these before any search phase.
func DefaultKnownRepos() []string {
	return []string{
		"anthropics/skills",
		"obra/superpowers",
		"travisvn/awesome-claude-skills",
		"dreamfactoryai/claude-skills",
		"hesreallyhim/awesome-claude-code",
	}
}

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Storage: StorageConfig{
			Root: "~/.agskills",
		},
		Crawl: CrawlConfig{
			Queries:    DefaultQueries(),
			KnownRepos: DefaultKnownRepos(),
			Limit:      50,
		},
		Ranking: RankingConfig{
			MinScore: 0,
		},
	}
}
