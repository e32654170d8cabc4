// Package catalog is the durable record of every repository the crawl has
// visited. It accumulates across runs and is persisted after every single
// visit so a killed crawl loses at most the in-flight request.
package catalog

import (
	"sort"
	"time"
)

type Status string

const (
	StatusHasSkills Status = "has-skills"
	StatusNoSkills  Status = "no-skills"
	StatusChecked   Status = "checked"
)

// maxChecks bounds the per-repository visit history; the oldest event is
// dropped on overflow.
const maxChecks = 20

// Check is one recorded visit event.
type Check struct {
	Time       time.Time `json:"time"`
	SkillCount int       `json:"skillCount"`
	Status     Status    `json:"status"`
}

// Entry is the last-known state of one repository, keyed by owner/name.
// FirstSeen is set once and never changes; everything else tracks the most
// recent visit.
type Entry struct {
	FirstSeen   time.Time `json:"firstSeen"`
	LastChecked time.Time `json:"lastChecked"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Description string    `json:"description,omitempty"`
	SkillCount  int       `json:"skillCount"`
	SkillIDs    []string  `json:"skillIds,omitempty"`
	Status      Status    `json:"status"`
	Checks      []Check   `json:"checks"`
}

type Catalog struct {
	Repos       map[string]*Entry `json:"repos"`
	LastUpdated *time.Time        `json:"lastUpdated"`
}

func NewCatalog() *Catalog {
	return &Catalog{Repos: map[string]*Entry{}}
}

// VisitInfo carries what one repository visit learned.
type VisitInfo struct {
	Stars       int
	Forks       int
	Description string
	SkillIDs    []string
	Status      Status
}

// RecordVisit upserts the entry for repoID. Entries are never deleted; the
// catalog only grows. Metadata fields are overwritten only when the visit
// supplied a real value, so a failed metadata fetch cannot erase what an
// earlier visit learned.
func RecordVisit(c *Catalog, repoID string, info VisitInfo) *Entry {
	now := time.Now().UTC()
	entry, ok := c.Repos[repoID]
	if !ok {
		entry = &Entry{FirstSeen: now}
		c.Repos[repoID] = entry
	}
	entry.LastChecked = now
	if info.Stars > 0 {
		entry.Stars = info.Stars
	}
	if info.Forks > 0 {
		entry.Forks = info.Forks
	}
	if info.Description != "" {
		entry.Description = info.Description
	}
	entry.SkillCount = len(info.SkillIDs)
	if len(info.SkillIDs) > 0 {
		entry.SkillIDs = append([]string(nil), info.SkillIDs...)
	}
	status := info.Status
	if status == "" {
		status = StatusChecked
	}
	entry.Status = status

	entry.Checks = append(entry.Checks, Check{Time: now, SkillCount: len(info.SkillIDs), Status: status})
	if len(entry.Checks) > maxChecks {
		entry.Checks = entry.Checks[len(entry.Checks)-maxChecks:]
	}
	return entry
}

// Stats is a pure aggregation over the catalog; no I/O.
type Stats struct {
	TotalRepos      int        `json:"totalRepos"`
	ReposWithSkills int        `json:"reposWithSkills"`
	EmptyRepos      int        `json:"emptyRepos"`
	TotalSkills     int        `json:"totalSkills"`
	OldestCheck     *time.Time `json:"oldestCheck"`
	NewestCheck     *time.Time `json:"newestCheck"`
	LastUpdated     *time.Time `json:"lastUpdated"`
}

func ComputeStats(c *Catalog) Stats {
	st := Stats{LastUpdated: c.LastUpdated}
	for _, entry := range c.Repos {
		st.TotalRepos++
		switch entry.Status {
		case StatusHasSkills:
			st.ReposWithSkills++
		case StatusNoSkills:
			st.EmptyRepos++
		}
		st.TotalSkills += entry.SkillCount
		checked := entry.LastChecked
		if st.OldestCheck == nil || checked.Before(*st.OldestCheck) {
			t := checked
			st.OldestCheck = &t
		}
		if st.NewestCheck == nil || checked.After(*st.NewestCheck) {
			t := checked
			st.NewestCheck = &t
		}
	}
	return st
}

// StaleRepo identifies an entry due for a fresh visit.
type StaleRepo struct {
	ID          string    `json:"id"`
	LastChecked time.Time `json:"lastChecked"`
	Status      Status    `json:"status"`
}

// StaleRepos returns entries whose last visit precedes now minus maxAgeHours,
// oldest first.
func StaleRepos(c *Catalog, maxAgeHours int) []StaleRepo {
	cutoff := time.Now().UTC().Add(-time.Duration(maxAgeHours) * time.Hour)
	var out []StaleRepo
	for id, entry := range c.Repos {
		if entry.LastChecked.Before(cutoff) {
			out = append(out, StaleRepo{ID: id, LastChecked: entry.LastChecked, Status: entry.Status})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastChecked.Before(out[j].LastChecked)
	})
	return out
}
