// Package app wires configuration, the GitHub client, the catalog, and the
// inventory builder into one service the CLI commands call.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tdclogic1/antigravity-skills/internal/audit"
	"github.com/tdclogic1/antigravity-skills/internal/catalog"
	"github.com/tdclogic1/antigravity-skills/internal/config"
	"github.com/tdclogic1/antigravity-skills/internal/crawler"
	"github.com/tdclogic1/antigravity-skills/internal/github"
	"github.com/tdclogic1/antigravity-skills/internal/inventory"
)

type Options struct {
	ConfigPath string

	// Token overrides the environment-sourced credential.
	Token string
}

type Service struct {
	Config  config.Config
	Root    string
	Client  *github.Client
	Store   *catalog.Store
	Catalog *catalog.Catalog
	Builder *inventory.Builder
}

func New(opts Options) (*Service, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Ensure(path)
	if err != nil {
		return nil, err
	}
	root, err := config.ResolveStorageRoot(cfg)
	if err != nil {
		return nil, err
	}

	token := opts.Token
	if token == "" {
		token = config.GitHubToken()
	}
	client := github.New(nil, token)
	store := catalog.NewStore(config.CatalogPath(root))
	cat := store.Load()
	logger := audit.New(config.CrawlLogPath(root))
	cr := crawler.New(client, store, cat, logger)

	return &Service{
		Config:  cfg,
		Root:    root,
		Client:  client,
		Store:   store,
		Catalog: cat,
		Builder: inventory.NewBuilder(client, cr, root, cfg.Ranking.MinScore),
	}, nil
}

// ScanOptions override the configured crawl parameters for one run.
type ScanOptions struct {
	Queries  []string
	Limit    int
	Duration time.Duration

	// DurationSet distinguishes an explicit zero (single pass) from no
	// override at all; MinScoreSet does the same for a zero floor.
	DurationSet bool
	MinScore    int
	MinScoreSet bool
}

// Scan runs one crawl-and-rank cycle and returns the inventory, or nil when
// nothing was discovered.
func (s *Service) Scan(ctx context.Context, opts ScanOptions) (*inventory.Inventory, error) {
	crawlCfg := crawler.Config{
		Queries:    s.Config.Crawl.Queries,
		KnownRepos: s.Config.Crawl.KnownRepos,
		Limit:      s.Config.Crawl.Limit,
		Duration:   s.Config.Crawl.CrawlDuration(),
	}
	if len(opts.Queries) > 0 {
		crawlCfg.Queries = opts.Queries
	}
	if opts.Limit > 0 {
		crawlCfg.Limit = opts.Limit
	}
	if opts.DurationSet {
		crawlCfg.Duration = opts.Duration
	}
	if opts.MinScoreSet {
		s.Builder.MinScore = opts.MinScore
	}
	return s.Builder.Build(ctx, crawlCfg)
}

// LoadInventory reads the last persisted inventory.
func (s *Service) LoadInventory() (*inventory.Inventory, error) {
	data, err := os.ReadFile(config.InventoryPath(s.Root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("INV_MISSING: no inventory yet, run a scan first")
		}
		return nil, fmt.Errorf("INV_READ: %w", err)
	}
	var inv inventory.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("INV_PARSE: %w", err)
	}
	return &inv, nil
}

// CatalogStats aggregates the on-disk catalog.
func (s *Service) CatalogStats() catalog.Stats {
	return catalog.ComputeStats(s.Catalog)
}

// StaleRepos lists catalog entries not checked within maxAgeHours, oldest
// first.
func (s *Service) StaleRepos(maxAgeHours int) []catalog.StaleRepo {
	return catalog.StaleRepos(s.Catalog, maxAgeHours)
}
