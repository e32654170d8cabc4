package catalog

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/tdclogic1/antigravity-skills/internal/fsutil"
)

// Store persists the catalog as a single JSON document. Writes take an
// advisory file lock so two concurrent runs cannot interleave a write, and
// go through tmp+rename so a crash never leaves a torn file.
type Store struct {
	path string
	lock *flock.Flock
}

func NewStore(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Load reads the persisted catalog. It never fails: a missing or unparseable
// file yields an empty catalog, which a subsequent Save will replace.
func (s *Store) Load() *Catalog {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return NewCatalog()
	}
	var c Catalog
	if err := json.Unmarshal(blob, &c); err != nil {
		return NewCatalog()
	}
	if c.Repos == nil {
		c.Repos = map[string]*Entry{}
	}
	return &c
}

// Save stamps LastUpdated and writes the whole catalog. The advisory lock is
// best effort: on filesystems without flock support the write proceeds
// unguarded, which matches the single-writer assumption of a local crawl.
func (s *Store) Save(c *Catalog) error {
	now := time.Now().UTC()
	c.LastUpdated = &now
	if err := s.lock.Lock(); err == nil {
		defer func() { _ = s.lock.Unlock() }()
	}
	return fsutil.WriteJSON(s.path, c)
}
