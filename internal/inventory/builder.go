// Package inventory turns one crawl into a ranked skill inventory: fetch and
// parse every discovered document, score it against the previous inventory,
// and persist the JSON inventory plus a human-readable report.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tdclogic1/antigravity-skills/internal/config"
	"github.com/tdclogic1/antigravity-skills/internal/crawler"
	"github.com/tdclogic1/antigravity-skills/internal/fsutil"
	"github.com/tdclogic1/antigravity-skills/internal/github"
	"github.com/tdclogic1/antigravity-skills/internal/ranker"
	"github.com/tdclogic1/antigravity-skills/internal/skillfile"
)

// Inventory is one completed scan.
type Inventory struct {
	ScannedAt       time.Time       `json:"scannedAt"`
	Queries         []string        `json:"queries"`
	ReposScanned    int             `json:"reposScanned"`
	TotalDiscovered int             `json:"totalDiscovered"`
	Duration        string          `json:"duration,omitempty"`
	Skills          []ranker.Ranked `json:"skills"`
}

// Builder wires the crawl, the fetch-and-parse stage, and the ranker against
// one storage root.
type Builder struct {
	Client  *github.Client
	Crawler *crawler.Crawler
	Root    string

	// MinScore drops ranked skills below the floor; zero keeps everything.
	MinScore int

	now func() time.Time
}

func NewBuilder(client *github.Client, cr *crawler.Crawler, root string, minScore int) *Builder {
	return &Builder{
		Client:   client,
		Crawler:  cr,
		Root:     root,
		MinScore: minScore,
		now:      time.Now,
	}
}

// Build runs one scan end to end. A crawl that discovers nothing returns a
// nil inventory and writes nothing; the catalog was still updated by the
// crawl itself.
func (b *Builder) Build(ctx context.Context, cfg crawler.Config) (*Inventory, error) {
	start := b.now()
	prior := b.loadPrior()

	res := b.Crawler.Run(ctx, cfg)
	if len(res.Items) == 0 {
		return nil, nil
	}

	skills := make([]skillfile.Skill, 0, len(res.Items))
	for _, item := range res.Items {
		if ctx.Err() != nil {
			break
		}
		if err := b.Crawler.Pace.Core.Wait(ctx); err != nil {
			break
		}
		raw, ok := b.Client.FetchContent(ctx, item.Repo, item.Path)
		if !ok {
			continue
		}
		skills = append(skills, skillfile.Parse(raw, item.Path, skillfile.Source{
			Repo:        item.Repo,
			URL:         item.HTMLURL,
			Description: item.Description,
			Stars:       item.Stars,
			Forks:       item.Forks,
			PushedAt:    item.PushedAt,
			Path:        item.Path,
		}))
	}

	ranked := ranker.Rank(skills, prior)
	if b.MinScore > 0 {
		kept := ranked[:0]
		for _, r := range ranked {
			if r.Score >= b.MinScore {
				kept = append(kept, r)
			}
		}
		ranked = kept
	}

	// totalDiscovered counts what survived the score floor, not the raw
	// crawl yield; duration is the run's elapsed wall time.
	inv := &Inventory{
		ScannedAt:       b.now().UTC(),
		Queries:         cfg.Queries,
		ReposScanned:    res.ReposScanned,
		TotalDiscovered: len(ranked),
		Skills:          ranked,
		Duration:        b.now().Sub(start).Round(time.Millisecond).String(),
	}

	if err := fsutil.WriteJSON(config.InventoryPath(b.Root), inv); err != nil {
		return nil, fmt.Errorf("INV_WRITE: %w", err)
	}
	if err := fsutil.AtomicWrite(config.ReportPath(b.Root), []byte(RenderReport(inv)), 0o644); err != nil {
		return nil, fmt.Errorf("INV_REPORT: %w", err)
	}
	return inv, nil
}

// loadPrior reads the previous inventory so this scan's uniqueness scoring
// can compare against it. Any read or decode failure means a first scan.
func (b *Builder) loadPrior() []ranker.Ranked {
	data, err := os.ReadFile(config.InventoryPath(b.Root))
	if err != nil {
		return nil
	}
	var prev Inventory
	if err := json.Unmarshal(data, &prev); err != nil {
		return nil
	}
	return prev.Skills
}
