package ranker

import (
	"time"

	"github.com/tdclogic1/antigravity-skills/internal/skillfile"
)

// scoreRepoSignals is tiered credit for the source repository: popularity
// (stars, forks), push recency, and whether the repo bothers with a
// description at all.
func scoreRepoSignals(src skillfile.Source) int {
	score := 0
	switch {
	case src.Stars >= 500:
		score += 8
	case src.Stars >= 200:
		score += 6
	case src.Stars >= 50:
		score += 4
	case src.Stars >= 10:
		score += 2
	case src.Stars >= 1:
		score += 1
	}
	switch {
	case src.Forks >= 100:
		score += 5
	case src.Forks >= 25:
		score += 3
	case src.Forks >= 5:
		score += 2
	case src.Forks >= 1:
		score += 1
	}
	score += recencyCredit(src.PushedAt, time.Now())
	if src.Description != "" {
		score += 2
	}
	return cap25(score)
}

// recencyCredit decays from 7 points under one month to 1 point under two
// years, then nothing.
func recencyCredit(pushedAt, now time.Time) int {
	if pushedAt.IsZero() || pushedAt.After(now) {
		return 0
	}
	months := now.Sub(pushedAt).Hours() / (24 * 30)
	switch {
	case months < 1:
		return 7
	case months < 3:
		return 5
	case months < 6:
		return 4
	case months < 12:
		return 2
	case months < 24:
		return 1
	default:
		return 0
	}
}
