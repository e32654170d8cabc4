package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agskills/config.toml"
	}
	return filepath.Join(home, ".agskills", "config.toml")
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}

func ResolveStorageRoot(cfg Config) (string, error) {
	expanded, err := ExpandPath(cfg.Storage.Root)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

func CatalogPath(root string) string {
	return filepath.Join(root, "repo-catalog.json")
}

func InventoryPath(root string) string {
	return filepath.Join(root, "inventory.json")
}

func ReportPath(root string) string {
	return filepath.Join(root, "report.md")
}

func CrawlLogPath(root string) string {
	return filepath.Join(root, "crawl.log")
}
