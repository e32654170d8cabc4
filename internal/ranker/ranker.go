// Package ranker scores discovered skill documents against a fixed rubric:
// four independent 0-25 sub-scores summed to a 0-100 total, a tier band, a
// keyword category, and similarity-based duplicate detection against the
// existing inventory.
package ranker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tdclogic1/antigravity-skills/internal/skillfile"
)

// Tier bands, in descending order of quality.
const (
	TierGold   = "★★★"
	TierSilver = "★★"
	TierBronze = "★"
	TierNone   = "⬡"
)

// Breakdown carries the per-factor sub-scores; each is in [0,25] and the
// total score is always their exact sum.
type Breakdown struct {
	Completeness int `json:"completeness"`
	Uniqueness   int `json:"uniqueness"`
	Quality      int `json:"quality"`
	RepoSignals  int `json:"repoSignals"`
}

// Ranked is a discovered skill plus its scoring verdict.
type Ranked struct {
	skillfile.Skill
	Category    string    `json:"category"`
	Score       int       `json:"score"`
	Tier        string    `json:"tier"`
	IsDuplicate bool      `json:"isDuplicate"`
	DuplicateOf string    `json:"duplicateOf,omitempty"`
	Breakdown   Breakdown `json:"breakdown"`
}

// TierFor maps a total score to its band.
func TierFor(score int) string {
	switch {
	case score >= 75:
		return TierGold
	case score >= 50:
		return TierSilver
	case score >= 25:
		return TierBronze
	default:
		return TierNone
	}
}

// Rank scores every discovered skill against the existing inventory and
// returns the results sorted by score descending, id ascending.
func Rank(discovered []skillfile.Skill, existing []Ranked) []Ranked {
	refs := make([]existingRef, 0, len(existing))
	for _, e := range existing {
		refs = append(refs, existingRef{
			id:     e.ID,
			tokens: skillfile.Tokens(e.Name, e.Description),
		})
	}

	// When one run surfaces the same id from two repositories, the higher
	// front-matter version keeps its uniqueness credit and the rest are
	// flagged duplicates of it.
	winner := map[string]int{}
	for i, s := range discovered {
		j, ok := winner[s.ID]
		if !ok || skillfile.CompareVersions(s.Version, discovered[j].Version) > 0 {
			winner[s.ID] = i
		}
	}

	out := make([]Ranked, 0, len(discovered))
	for i, s := range discovered {
		r := Ranked{Skill: s, Category: Categorize(s)}
		uniq, dupOf, dup := scoreUniqueness(s, refs)
		if winner[s.ID] != i {
			uniq, dupOf, dup = 0, s.ID, true
		}
		r.Breakdown = Breakdown{
			Completeness: scoreCompleteness(s),
			Uniqueness:   uniq,
			Quality:      scoreQuality(s),
			RepoSignals:  scoreRepoSignals(s.Source),
		}
		r.Score = r.Breakdown.Completeness + r.Breakdown.Uniqueness + r.Breakdown.Quality + r.Breakdown.RepoSignals
		r.Tier = TierFor(r.Score)
		r.IsDuplicate = dup
		r.DuplicateOf = dupOf
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type existingRef struct {
	id     string
	tokens map[string]struct{}
}

var (
	reWhenToUse    = regexp.MustCompile(`(?i)\bwhen to use\b|\buse (this |it )?when\b`)
	reDoNotUse     = regexp.MustCompile(`(?i)\b(do not|don't) use\b|\bwhen not to use\b|\bnot (for|suitable for)\b`)
	reInstructions = regexp.MustCompile(`(?im)^#{1,6}[^\n]*\b(instructions?|steps|usage|how to|workflow)\b`)
	reH2           = regexp.MustCompile(`(?m)^## `)
	reSubPath      = regexp.MustCompile(`(?i)\b(references|examples|resources)/`)
	reSafety       = regexp.MustCompile(`(?im)^#{1,6}[^\n]*\b(safety|warnings?|caveats?)\b`)
)

// scoreCompleteness rewards documents that carry the full skill shape: a
// real display name, a usable description, body content, and the standard
// guidance sections.
func scoreCompleteness(s skillfile.Skill) int {
	score := 0
	name := strings.TrimSpace(s.Name)
	if name != "" && name != s.ID {
		score += 5
	}
	switch {
	case len(s.Description) > 20:
		score += 5
	case len(s.Description) > 0:
		score += 2
	}
	if len(s.Content) > 100 {
		score += 3
	}
	if reWhenToUse.MatchString(s.Content) {
		score += 4
	}
	if reDoNotUse.MatchString(s.Content) {
		score += 3
	}
	if reInstructions.MatchString(s.Content) {
		score += 3
	}
	if len(s.Tags) > 0 {
		score += 2
	}
	return cap25(score)
}

// scoreUniqueness compares the candidate against every existing entry. An
// exact id collision forfeits all credit. Text similarity above 0.7 is a
// flagged duplicate; 0.5-0.7 loses points without being flagged, a deliberate
// soft-matching policy so near-duplicates are penalized but not discarded.
func scoreUniqueness(s skillfile.Skill, existing []existingRef) (int, string, bool) {
	tokens := skillfile.Tokens(s.Name, s.Description)
	best := 0.0
	bestID := ""
	for _, e := range existing {
		if e.id == s.ID {
			return 0, e.id, true
		}
		if sim := Jaccard(tokens, e.tokens); sim > best {
			best = sim
			bestID = e.id
		}
	}
	switch {
	case best > 0.7:
		return 3, bestID, true
	case best > 0.5:
		return 10, "", false
	case best > 0.3:
		return 18, "", false
	default:
		return 25, "", false
	}
}

// scoreQuality is length-tiered credit for description and body plus
// structural markers: code blocks, section headers, bundled sub-paths, a
// safety section, and a clean header parse.
func scoreQuality(s skillfile.Skill) int {
	score := 0
	switch d := len(s.Description); {
	case d >= 80:
		score += 5
	case d >= 40:
		score += 3
	case d > 20:
		score += 2
	case d > 0:
		score += 1
	}
	switch b := len(s.Content); {
	case b >= 2000:
		score += 5
	case b >= 1000:
		score += 4
	case b >= 500:
		score += 3
	case b >= 200:
		score += 2
	case b > 0:
		score += 1
	}
	if strings.Contains(s.Content, "```") {
		score += 4
	}
	switch h := len(reH2.FindAllString(s.Content, -1)); {
	case h >= 4:
		score += 4
	case h >= 2:
		score += 2
	case h >= 1:
		score += 1
	}
	if reSubPath.MatchString(s.Content) {
		score += 3
	}
	if reSafety.MatchString(s.Content) {
		score += 2
	}
	if len(s.ParseErrors) == 0 {
		score += 2
	}
	return cap25(score)
}

// Jaccard is intersection over union of two token sets. Symmetric; an empty
// side yields zero.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func cap25(score int) int {
	if score > 25 {
		return 25
	}
	return score
}
