package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tdclogic1/antigravity-skills/internal/app"
	"github.com/tdclogic1/antigravity-skills/internal/inventory"
	"github.com/tdclogic1/antigravity-skills/internal/ranker"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ex, ok := err.(ExitCoder); ok {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	newSvc := func() (*app.Service, error) {
		return app.New(app.Options{ConfigPath: configPath})
	}

	cmd := &cobra.Command{
		Use:           "agskills",
		Short:         "Discover and rank agent skill documents across GitHub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newScanCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newReportCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newCatalogCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(&jsonOutput))

	return cmd
}

func newScanCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var limit int
	var duration string
	var queries []string
	var minScore int

	scanCmd := &cobra.Command{
		Use:     "scan",
		Aliases: []string{"crawl", "discover"},
		Short:   "Crawl GitHub for skill documents and rank them",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			opts := app.ScanOptions{Queries: queries, Limit: limit}
			if cmd.Flags().Changed("min-score") {
				opts.MinScore = minScore
				opts.MinScoreSet = true
			}
			if cmd.Flags().Changed("duration") {
				d, err := time.ParseDuration(duration)
				if err != nil {
					return fmt.Errorf("SCAN_DURATION: %w", err)
				}
				opts.Duration = d
				opts.DurationSet = true
			}
			inv, err := svc.Scan(cmd.Context(), opts)
			if err != nil {
				return err
			}
			stats := svc.CatalogStats()
			if inv == nil {
				return print(*jsonOutput, map[string]any{"discovered": 0, "catalog": stats},
					fmt.Sprintf("no skill documents discovered; catalog holds %d repositories", stats.TotalRepos))
			}
			return print(*jsonOutput, inv, fmt.Sprintf(
				"scanned %d repositories, discovered %d documents, ranked %d skills (report: %s)",
				inv.ReposScanned, inv.TotalDiscovered, len(inv.Skills), "report.md"))
		},
	}
	scanCmd.Flags().IntVar(&limit, "limit", 0, "max documents to collect (0 uses config)")
	scanCmd.Flags().StringVar(&duration, "duration", "", "crawl budget, e.g. 30m (0 means a single pass)")
	scanCmd.Flags().StringSliceVar(&queries, "queries", nil, "override configured search queries")
	scanCmd.Flags().IntVar(&minScore, "min-score", 0, "override the ranking score floor")
	return scanCmd
}

func newReportCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "report",
		Aliases: []string{"rep", "show"},
		Short:   "Show the last ranked inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			inv, err := svc.LoadInventory()
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, inv, "")
			}
			printInventory(inv)
			return nil
		},
	}
}

var tierColors = map[string]*color.Color{
	ranker.TierGold:   color.New(color.FgYellow, color.Bold),
	ranker.TierSilver: color.New(color.FgCyan),
	ranker.TierBronze: color.New(color.FgGreen),
	ranker.TierNone:   color.New(color.FgHiBlack),
}

func printInventory(inv *inventory.Inventory) {
	fmt.Printf("scanned %s  repos=%d discovered=%d ranked=%d\n\n",
		inv.ScannedAt.Format("2006-01-02 15:04 UTC"), inv.ReposScanned, inv.TotalDiscovered, len(inv.Skills))
	for _, skill := range inv.Skills {
		c := tierColors[skill.Tier]
		if c == nil {
			c = color.New()
		}
		line := fmt.Sprintf("%-4s %3d  %-28s %-28s %-14s %s",
			skill.Tier, skill.Score, skill.ID, skill.DisplayName(), skill.Category, skill.Source.Repo)
		if skill.IsDuplicate {
			line += "  (duplicate of " + skill.DuplicateOf + ")"
		}
		c.Println(line)
	}
}

func newCatalogCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"cat"},
		Short:   "Inspect the persistent repository catalog",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			stats := svc.CatalogStats()
			msg := fmt.Sprintf("repos=%d with-skills=%d empty=%d skills=%d",
				stats.TotalRepos, stats.ReposWithSkills, stats.EmptyRepos, stats.TotalSkills)
			if stats.LastUpdated != nil {
				msg += " updated=" + stats.LastUpdated.Format(time.RFC3339)
			}
			return print(*jsonOutput, stats, msg)
		},
	}

	var hours int
	staleCmd := &cobra.Command{
		Use:   "stale",
		Short: "List repositories not checked recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours <= 0 {
				return &exitError{code: 2, msg: "CAT_STALE_HOURS: --hours must be positive"}
			}
			svc, err := newSvc()
			if err != nil {
				return err
			}
			stale := svc.StaleRepos(hours)
			if *jsonOutput {
				return print(true, stale, "")
			}
			if len(stale) == 0 {
				fmt.Printf("no repositories older than %dh\n", hours)
				return nil
			}
			for _, repo := range stale {
				fmt.Printf("%-40s %-12s last checked %s\n", repo.ID, repo.Status, repo.LastChecked.Format(time.RFC3339))
			}
			return nil
		},
	}
	staleCmd.Flags().IntVar(&hours, "hours", 24, "staleness threshold in hours")

	catalogCmd.AddCommand(statsCmd)
	catalogCmd.AddCommand(staleCmd)
	return catalogCmd
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}
