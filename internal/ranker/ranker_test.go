package ranker

import (
	"strings"
	"testing"
	"time"

	"github.com/tdclogic1/antigravity-skills/internal/skillfile"
)

func TestTierForBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, TierGold},
		{75, TierGold},
		{74, TierSilver},
		{50, TierSilver},
		{49, TierBronze},
		{25, TierBronze},
		{24, TierNone},
		{0, TierNone},
	}
	for _, c := range cases {
		if got := TierFor(c.score); got != c.want {
			t.Errorf("TierFor(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestJaccardSymmetric(t *testing.T) {
	a := skillfile.Tokens("alpha beta gamma")
	b := skillfile.Tokens("beta gamma delta")
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Error("jaccard must be symmetric")
	}
}

func TestJaccardIdentity(t *testing.T) {
	a := skillfile.Tokens("alpha beta")
	if got := Jaccard(a, a); got != 1.0 {
		t.Errorf("jaccard(A,A) = %v, want 1", got)
	}
}

func TestJaccardEmptySet(t *testing.T) {
	a := map[string]struct{}{}
	b := skillfile.Tokens("alpha beta")
	if got := Jaccard(a, b); got != 0 {
		t.Errorf("jaccard(empty,B) = %v, want 0", got)
	}
	if got := Jaccard(a, a); got != 0 {
		t.Errorf("jaccard(empty,empty) = %v, want 0", got)
	}
}

func TestScoreIsSumOfBreakdownAndInRange(t *testing.T) {
	discovered := []skillfile.Skill{
		{
			ID:          "pdf-toolkit",
			Name:        "PDF Toolkit",
			Description: strings.Repeat("extract and merge pdf documents ", 4),
			Tags:        []string{"pdf"},
			Content:     "## When to use\n\nUse this when handling PDFs.\n\n## Instructions\n\n```py\nprint(1)\n```\n" + strings.Repeat("detail ", 40),
			Source:      skillfile.Source{Repo: "octo/skills", Stars: 600, Forks: 120, Description: "skills", PushedAt: time.Now().Add(-24 * time.Hour)},
		},
		{ID: "empty-skill"},
	}
	for _, r := range Rank(discovered, nil) {
		sum := r.Breakdown.Completeness + r.Breakdown.Uniqueness + r.Breakdown.Quality + r.Breakdown.RepoSignals
		if r.Score != sum {
			t.Errorf("%s: score %d != breakdown sum %d", r.ID, r.Score, sum)
		}
		for name, sub := range map[string]int{
			"completeness": r.Breakdown.Completeness,
			"uniqueness":   r.Breakdown.Uniqueness,
			"quality":      r.Breakdown.Quality,
			"repoSignals":  r.Breakdown.RepoSignals,
		} {
			if sub < 0 || sub > 25 {
				t.Errorf("%s: %s = %d out of [0,25]", r.ID, name, sub)
			}
		}
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("%s: score %d out of [0,100]", r.ID, r.Score)
		}
	}
}

func TestCompleteDocAgainstEmptyCatalog(t *testing.T) {
	s := skillfile.Skill{
		ID:          "foo",
		Name:        "Foo",
		Description: strings.Repeat("A", 30),
		Tags:        []string{"x"},
		Content: "## Use When\n\nUse this when you need foo-style processing of inputs.\n\n" +
			"## Instructions\n\nRun the steps below.\n\n```js\ncode\n```\n",
	}
	out := Rank([]skillfile.Skill{s}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 ranked record, got %d", len(out))
	}
	r := out[0]
	if r.Breakdown.Completeness < 22 {
		t.Errorf("completeness = %d, want >= 22", r.Breakdown.Completeness)
	}
	if r.Breakdown.Uniqueness != 25 {
		t.Errorf("uniqueness = %d, want 25 against an empty catalog", r.Breakdown.Uniqueness)
	}
	if r.IsDuplicate {
		t.Error("must not be flagged duplicate against an empty catalog")
	}
}

func TestExactIDCollisionForcesZeroUniqueness(t *testing.T) {
	existing := []Ranked{{Skill: skillfile.Skill{ID: "foo", Name: "Completely Different", Description: "nothing alike"}}}
	out := Rank([]skillfile.Skill{{ID: "foo", Name: "Foo", Description: "fresh take"}}, existing)
	r := out[0]
	if r.Breakdown.Uniqueness != 0 {
		t.Errorf("uniqueness = %d, want 0 on id collision", r.Breakdown.Uniqueness)
	}
	if !r.IsDuplicate || r.DuplicateOf != "foo" {
		t.Errorf("expected duplicate of foo, got %+v", r)
	}
}

func TestNearIdenticalTextIsFlaggedDuplicate(t *testing.T) {
	existing := []Ranked{{Skill: skillfile.Skill{
		ID:          "code-review-helper",
		Name:        "Thorough Code Review Assistant",
		Description: "Reviews pull requests for style, correctness, and security issues.",
	}}}
	out := Rank([]skillfile.Skill{{
		ID:          "review-buddy",
		Name:        "Thorough Code Review Assistant",
		Description: "Reviews pull requests for style, correctness, and security issues.",
	}}, existing)
	r := out[0]
	if r.Breakdown.Uniqueness > 3 {
		t.Errorf("uniqueness = %d, want <= 3 for near-identical text", r.Breakdown.Uniqueness)
	}
	if !r.IsDuplicate || r.DuplicateOf != "code-review-helper" {
		t.Errorf("expected duplicate of code-review-helper, got dup=%v of=%q", r.IsDuplicate, r.DuplicateOf)
	}
}

func TestModerateSimilarityLosesPointsWithoutFlag(t *testing.T) {
	existing := []Ranked{{Skill: skillfile.Skill{
		ID:          "api-designer",
		Name:        "REST API design helper",
		Description: "Designs REST endpoints with pagination and versioning",
	}}}
	out := Rank([]skillfile.Skill{{
		ID:          "api-builder",
		Name:        "REST API design helper",
		Description: "Builds GraphQL schemas with caching and batching support",
	}}, existing)
	r := out[0]
	if r.IsDuplicate {
		t.Errorf("moderate similarity must not be flagged: %+v", r.Breakdown)
	}
	if r.Breakdown.Uniqueness >= 25 {
		t.Errorf("uniqueness = %d, expected a penalty below full credit", r.Breakdown.Uniqueness)
	}
}

func TestRankOutputSorted(t *testing.T) {
	discovered := []skillfile.Skill{
		{ID: "zeta", Name: "Zeta", Description: strings.Repeat("z", 30)},
		{ID: "alpha"},
		{ID: "beta"},
		{ID: "gamma", Name: "Gamma", Description: strings.Repeat("g", 90), Tags: []string{"t"}, Content: strings.Repeat("## Section\ntext\n", 30)},
	}
	out := Rank(discovered, nil)
	for i := 0; i+1 < len(out); i++ {
		if out[i].Score < out[i+1].Score {
			t.Fatalf("not sorted by score desc at %d: %d < %d", i, out[i].Score, out[i+1].Score)
		}
		if out[i].Score == out[i+1].Score && out[i].ID > out[i+1].ID {
			t.Fatalf("tie not broken by id asc at %d: %s > %s", i, out[i].ID, out[i+1].ID)
		}
	}
}

func TestSameIDInOneRunPrefersHigherVersion(t *testing.T) {
	discovered := []skillfile.Skill{
		{ID: "pdf-toolkit", Name: "PDF Toolkit", Description: "older rendition of the toolkit", Version: "v1.0.0"},
		{ID: "pdf-toolkit", Name: "PDF Toolkit", Description: "newer rendition of the toolkit", Version: "v2.1.0"},
	}
	out := Rank(discovered, nil)
	var winner, loser *Ranked
	for i := range out {
		if out[i].Version == "v2.1.0" {
			winner = &out[i]
		} else {
			loser = &out[i]
		}
	}
	if winner == nil || loser == nil {
		t.Fatal("expected both records present")
	}
	if winner.IsDuplicate {
		t.Error("higher version must keep its credit")
	}
	if !loser.IsDuplicate || loser.Breakdown.Uniqueness != 0 {
		t.Errorf("lower version should lose uniqueness: %+v", loser.Breakdown)
	}
}

func TestRecencyCredit(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want int
	}{
		{15 * 24 * time.Hour, 7},
		{60 * 24 * time.Hour, 5},
		{150 * 24 * time.Hour, 4},
		{300 * 24 * time.Hour, 2},
		{600 * 24 * time.Hour, 1},
		{800 * 24 * time.Hour, 0},
	}
	for _, c := range cases {
		if got := recencyCredit(now.Add(-c.age), now); got != c.want {
			t.Errorf("recencyCredit(age %v) = %d, want %d", c.age, got, c.want)
		}
	}
	if got := recencyCredit(time.Time{}, now); got != 0 {
		t.Errorf("zero pushedAt should earn nothing, got %d", got)
	}
}

func TestRepoSignalsTiers(t *testing.T) {
	top := scoreRepoSignals(skillfile.Source{Stars: 900, Forks: 250, Description: "d", PushedAt: time.Now().Add(-24 * time.Hour)})
	if top != 22 {
		t.Errorf("top-tier repo = %d, want 22", top)
	}
	if got := scoreRepoSignals(skillfile.Source{}); got != 0 {
		t.Errorf("zero repo = %d, want 0", got)
	}
	small := scoreRepoSignals(skillfile.Source{Stars: 1, Forks: 1})
	if small != 2 {
		t.Errorf("one star one fork = %d, want 2", small)
	}
}

func TestCategorizeFirstRuleWins(t *testing.T) {
	// Matches both security and testing keywords; security is listed first.
	s := skillfile.Skill{ID: "sec-test", Description: "security testing toolkit"}
	if got := Categorize(s); got != "security" {
		t.Errorf("category = %q, want security", got)
	}
}

func TestCategorizeDefault(t *testing.T) {
	s := skillfile.Skill{ID: "misc", Name: "Misc", Description: "odds and ends"}
	if got := Categorize(s); got != DefaultCategory {
		t.Errorf("category = %q, want %q", got, DefaultCategory)
	}
}

func TestCategorizeUsesTags(t *testing.T) {
	s := skillfile.Skill{ID: "thing", Tags: []string{"kubernetes"}}
	if got := Categorize(s); got != "infrastructure" {
		t.Errorf("category = %q, want infrastructure", got)
	}
}
