// Package crawler walks GitHub for skill documents in three ordered phases:
// a seed list of known repositories, keyword repository search, and, when a
// token allows it, code search for the document filename. Every repository
// visit is recorded to the catalog and saved immediately, so an interrupted
// run loses at most the visit in flight.
package crawler

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/tdclogic1/antigravity-skills/internal/audit"
	"github.com/tdclogic1/antigravity-skills/internal/catalog"
	"github.com/tdclogic1/antigravity-skills/internal/github"
	"github.com/tdclogic1/antigravity-skills/internal/skillfile"
)

const (
	// maxSearchPages bounds how deep a slow-walk run pages into each query
	// before cycling back to page one.
	maxSearchPages = 5

	// pageCyclePause separates slow-walk page cycles; fresh results need
	// time to appear before page one is worth re-reading.
	pageCyclePause = time.Minute

	// searchFailCooldown follows a failed search query in slow-walk mode.
	searchFailCooldown = 30 * time.Second
)

// codeSearchQueries are the fixed code-search passes. Both target the
// document filename; the second narrows to the conventional directory so the
// thirty-result page surfaces different repositories.
var codeSearchQueries = []string{
	"filename:" + skillfile.FileName,
	"filename:" + skillfile.FileName + " path:skills",
}

// Config is one crawl run's parameters.
type Config struct {
	Queries    []string
	KnownRepos []string

	// Limit caps collected documents across all phases. Zero means
	// unbounded.
	Limit int

	// Duration turns the run into a slow walk with a deadline; zero means
	// a single pass over page one of every query.
	Duration time.Duration
}

// Discovered is one skill document location plus the repository signals the
// scoring stage needs, so ranking never re-fetches metadata.
type Discovered struct {
	Repo        string    `json:"repo"`
	RepoURL     string    `json:"repoUrl"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"htmlUrl"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Description string    `json:"description,omitempty"`
	PushedAt    time.Time `json:"pushedAt,omitzero"`
}

// Result is what one run collected.
type Result struct {
	Items        []Discovered
	ReposScanned int
}

// Crawler drives the three discovery phases against one client and catalog.
type Crawler struct {
	client *github.Client
	store  *catalog.Store
	cat    *catalog.Catalog
	log    *audit.Logger

	// Pace can be replaced before Run; Unmetered makes tests instant.
	Pace Pacing

	// now and sleep are swappable in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(client *github.Client, store *catalog.Store, cat *catalog.Catalog, logger *audit.Logger) *Crawler {
	return &Crawler{
		client: client,
		store:  store,
		cat:    cat,
		log:    logger,
		Pace:   NewPacing(client.Authenticated()),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Run executes the phases in order and returns whatever was collected, even
// when the context expires mid-run. Failures inside a phase degrade and are
// logged rather than aborting the crawl, so there is no error to return.
func (c *Crawler) Run(ctx context.Context, cfg Config) Result {
	st := &runState{
		visited: map[string]bool{},
		seen:    map[string]bool{},
		limit:   cfg.Limit,
	}
	if cfg.Duration > 0 {
		st.deadline = c.now().Add(cfg.Duration)
	}

	c.visitKnown(ctx, cfg.KnownRepos, st)
	c.searchRepositories(ctx, cfg.Queries, st)
	c.searchCode(ctx, st)

	return Result{Items: st.items, ReposScanned: len(st.visited)}
}

// runState is threaded through the phases: the collected items, the
// repositories already visited this run, and the repo+path pairs already
// collected so overlapping phases never duplicate a document.
type runState struct {
	items    []Discovered
	visited  map[string]bool
	seen     map[string]bool
	limit    int
	deadline time.Time
}

func (st *runState) limitReached() bool {
	return st.limit > 0 && len(st.items) >= st.limit
}

// done is checked at the top of every loop so the limit, the deadline, and
// cancellation all cut the run at the next natural boundary.
func (c *Crawler) done(ctx context.Context, st *runState) bool {
	if ctx.Err() != nil {
		return true
	}
	if st.limitReached() {
		return true
	}
	return !st.deadline.IsZero() && !c.now().Before(st.deadline)
}

func (c *Crawler) visitKnown(ctx context.Context, repos []string, st *runState) {
	for _, repoID := range repos {
		if c.done(ctx, st) {
			return
		}
		c.visitRepo(ctx, "known", repoID, st)
	}
}

func (c *Crawler) searchRepositories(ctx context.Context, queries []string, st *runState) {
	slowWalk := !st.deadline.IsZero()
	for page := 1; ; page++ {
		if c.done(ctx, st) {
			return
		}
		for _, query := range queries {
			if c.done(ctx, st) {
				return
			}
			if err := c.Pace.Search.Wait(ctx); err != nil {
				return
			}
			repos, err := c.client.SearchRepositories(ctx, query, page)
			if err != nil {
				c.auditErr("search", "", "query-failed", fmt.Errorf("%q page %d: %w", query, page, err))
				if slowWalk {
					if serr := c.sleep(ctx, searchFailCooldown); serr != nil {
						return
					}
				}
				continue
			}
			for _, repo := range repos {
				if c.done(ctx, st) {
					break
				}
				c.visitRepo(ctx, "search", repo.FullName, st)
			}
		}
		if !slowWalk {
			return
		}
		if page >= maxSearchPages {
			if err := c.sleep(ctx, pageCyclePause); err != nil {
				return
			}
			page = 0
		}
	}
}

func (c *Crawler) searchCode(ctx context.Context, st *runState) {
	if !c.client.Authenticated() {
		return
	}
	for _, query := range codeSearchQueries {
		if c.done(ctx, st) {
			return
		}
		if err := c.Pace.Search.Wait(ctx); err != nil {
			return
		}
		hits, err := c.client.SearchCode(ctx, query)
		if err != nil {
			c.auditErr("code-search", "", "query-failed", fmt.Errorf("%q: %w", query, err))
			continue
		}
		for _, hit := range hits {
			if c.done(ctx, st) {
				return
			}
			if st.seen[hit.Repo.FullName+"\x00"+hit.Path] {
				continue
			}
			c.visitRepo(ctx, "code-search", hit.Repo.FullName, st)
		}
	}
}

// visitRepo fetches metadata and the recursive tree, collects every document
// path, and records the visit. A metadata failure degrades to zero-value
// signals rather than skipping the repository; a tree failure records an
// empty visit so the catalog still remembers the check.
func (c *Crawler) visitRepo(ctx context.Context, phase, repoID string, st *runState) {
	if st.visited[repoID] || c.done(ctx, st) {
		return
	}
	st.visited[repoID] = true

	if err := c.Pace.Core.Wait(ctx); err != nil {
		return
	}
	meta, err := c.client.GetRepo(ctx, repoID)
	if err != nil {
		c.auditErr(phase, repoID, "metadata-failed", err)
		meta = github.Repo{}
	}

	branch := meta.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	if err := c.Pace.Core.Wait(ctx); err != nil {
		return
	}
	entries, treeErr := c.client.ListTree(ctx, repoID, branch)
	if treeErr != nil && branch != "master" {
		// Older repositories predate the main default.
		if err := c.Pace.Core.Wait(ctx); err != nil {
			return
		}
		if retried, retryErr := c.client.ListTree(ctx, repoID, "master"); retryErr == nil {
			entries, treeErr = retried, nil
			branch = "master"
		}
	}
	if treeErr != nil {
		c.auditErr(phase, repoID, "tree-failed", treeErr)
		entries = nil
	}

	repoURL := meta.HTMLURL
	if repoURL == "" {
		repoURL = "https://github.com/" + repoID
	}
	var found []Discovered
	var ids []string
	for _, entry := range entries {
		if entry.Type != "blob" || path.Base(entry.Path) != skillfile.FileName {
			continue
		}
		id := skillfile.IDFromPath(entry.Path)
		ids = append(ids, id)
		found = append(found, Discovered{
			Repo:        repoID,
			RepoURL:     repoURL,
			Path:        entry.Path,
			Name:        id,
			HTMLURL:     repoURL + "/blob/" + branch + "/" + entry.Path,
			Stars:       meta.Stars,
			Forks:       meta.Forks,
			Description: meta.Description,
			PushedAt:    meta.PushedAt,
		})
	}

	status := catalog.StatusNoSkills
	if len(ids) > 0 {
		status = catalog.StatusHasSkills
	}
	catalog.RecordVisit(c.cat, repoID, catalog.VisitInfo{
		Stars:       meta.Stars,
		Forks:       meta.Forks,
		Description: meta.Description,
		SkillIDs:    ids,
		Status:      status,
	})
	if err := c.store.Save(c.cat); err != nil {
		c.auditErr(phase, repoID, "catalog-save-failed", err)
	}
	_ = c.log.Log(audit.Event{
		Phase:  phase,
		Repo:   repoID,
		Status: "visited",
		Fields: map[string]string{"skills": strconv.Itoa(len(ids))},
	})

	for _, d := range found {
		if st.limitReached() {
			break
		}
		key := d.Repo + "\x00" + d.Path
		if st.seen[key] {
			continue
		}
		st.seen[key] = true
		st.items = append(st.items, d)
	}
}

func (c *Crawler) auditErr(phase, repo, status string, err error) {
	ev := audit.Event{Phase: phase, Repo: repo, Status: status}
	if err != nil {
		ev.Message = err.Error()
	}
	_ = c.log.Log(ev)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
