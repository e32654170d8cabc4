package inventory

import (
	"fmt"
	"strings"

	"github.com/tdclogic1/antigravity-skills/internal/ranker"
)

// RenderReport renders the inventory as markdown: one table per tier in
// descending tier order, then a category summary. Rows inside a tier keep
// the inventory's score-descending order.
func RenderReport(inv *Inventory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Skill Inventory\n\n")
	fmt.Fprintf(&sb, "Scanned %s. %d repositories scanned, %d documents discovered, %d ranked.\n\n",
		inv.ScannedAt.Format("2006-01-02 15:04 UTC"), inv.ReposScanned, inv.TotalDiscovered, len(inv.Skills))

	for _, tier := range []string{ranker.TierGold, ranker.TierSilver, ranker.TierBronze, ranker.TierNone} {
		rows := byTier(inv.Skills, tier)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s (%d)\n\n", tierHeading(tier), len(rows))
		sb.WriteString("| Score | Skill | ID | Category | Description | Source |\n")
		sb.WriteString("|------:|-------|----|----------|-------------|--------|\n")
		for _, r := range rows {
			id := r.ID
			if r.IsDuplicate {
				id += " (duplicate of " + r.DuplicateOf + ")"
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | [%s](%s) |\n",
				r.Score, r.DisplayName(), id, r.Category, cell(r.Description), r.Source.Repo, r.Source.URL)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Categories\n\n")
	counts := map[string]int{}
	for _, r := range inv.Skills {
		counts[r.Category]++
	}
	// Rule order, not alphabetical, so the summary reads in the same
	// priority order the categorizer applies.
	for _, name := range ranker.Categories() {
		if n := counts[name]; n > 0 {
			fmt.Fprintf(&sb, "- %s: %d\n", name, n)
		}
	}
	return sb.String()
}

func byTier(skills []ranker.Ranked, tier string) []ranker.Ranked {
	var out []ranker.Ranked
	for _, r := range skills {
		if r.Tier == tier {
			out = append(out, r)
		}
	}
	return out
}

func tierHeading(tier string) string {
	switch tier {
	case ranker.TierGold:
		return "★★★ Excellent"
	case ranker.TierSilver:
		return "★★ Good"
	case ranker.TierBronze:
		return "★ Fair"
	default:
		return "⬡ Needs work"
	}
}

// cell flattens a description for a markdown table row. Truncation counts
// runes so a multi-byte description is never cut mid-sequence.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	if runes := []rune(s); len(runes) > 120 {
		s = string(runes[:117]) + "..."
	}
	return strings.TrimSpace(s)
}
