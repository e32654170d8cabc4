package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdclogic1/antigravity-skills/internal/config"
	"github.com/tdclogic1/antigravity-skills/internal/crawler"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Root = filepath.Join(dir, "store")
	path := filepath.Join(dir, "config.toml")
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	svc, err := New(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewWiresEverything(t *testing.T) {
	svc := testService(t)
	if svc.Client == nil || svc.Store == nil || svc.Catalog == nil || svc.Builder == nil {
		t.Fatal("service has unwired fields")
	}
	if svc.Root == "" {
		t.Error("storage root not resolved")
	}
	if len(svc.Config.Crawl.Queries) == 0 {
		t.Error("default queries missing")
	}
}

func TestLoadInventoryMissing(t *testing.T) {
	svc := testService(t)
	_, err := svc.LoadInventory()
	if err == nil || !strings.Contains(err.Error(), "INV_MISSING") {
		t.Fatalf("expected INV_MISSING, got %v", err)
	}
}

func TestScanAppliesQueryAndScoreOverrides(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"total_count":1,"items":[{"full_name":"acme/skills","html_url":"https://github.com/acme/skills","stargazers_count":5,"default_branch":"main"}]}`)
	})
	mux.HandleFunc("/repos/acme/skills", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name":"acme/skills","html_url":"https://github.com/acme/skills","default_branch":"main"}`)
	})
	mux.HandleFunc("/repos/acme/skills/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tree":[{"path":"skills/pdf/SKILL.md","type":"blob"}]}`)
	})
	mux.HandleFunc("/repos/acme/skills/contents/skills/pdf/SKILL.md", func(w http.ResponseWriter, r *http.Request) {
		doc := "---\nname: PDF\ndescription: Extract text from PDF files.\n---\n\n# PDF\n"
		_ = json.NewEncoder(w).Encode(map[string]string{
			"content":  base64.StdEncoding.EncodeToString([]byte(doc)),
			"encoding": "base64",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := testService(t)
	svc.Config.Crawl.KnownRepos = nil
	svc.Client.BaseURL = server.URL
	svc.Client.Diag = io.Discard
	svc.Builder.Crawler.Pace = crawler.Unmetered()

	inv, err := svc.Scan(context.Background(), ScanOptions{
		Queries:     []string{"team skill docs"},
		MinScore:    101,
		MinScoreSet: true,
	})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if gotQuery != "team skill docs" {
		t.Errorf("search query = %q, want the override", gotQuery)
	}
	if inv == nil {
		t.Fatal("expected an inventory")
	}
	if inv.TotalDiscovered != 0 || len(inv.Skills) != 0 {
		t.Errorf("discovered=%d kept=%d, want the score floor to drop everything", inv.TotalDiscovered, len(inv.Skills))
	}
	if svc.Builder.MinScore != 101 {
		t.Errorf("builder floor = %d, want 101", svc.Builder.MinScore)
	}
}

func TestCatalogStatsEmpty(t *testing.T) {
	svc := testService(t)
	stats := svc.CatalogStats()
	if stats.TotalRepos != 0 || stats.LastUpdated != nil {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stale := svc.StaleRepos(1); len(stale) != 0 {
		t.Errorf("expected no stale repos, got %d", len(stale))
	}
}
