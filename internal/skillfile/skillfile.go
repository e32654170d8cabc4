// Package skillfile parses SKILL.md documents: a YAML front matter header
// (name, description, tags, version) followed by a free-text markdown body.
package skillfile

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FileName is the document name the crawl looks for.
const FileName = "SKILL.md"

// Source records where a skill document was discovered, including the
// repository signals the ranker consumes.
type Source struct {
	Repo        string    `json:"repo"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	PushedAt    time.Time `json:"pushedAt,omitzero"`
	Path        string    `json:"path"`
}

// Skill is one parsed skill document. ParseErrors is empty when the header
// parsed cleanly; a dirty parse never drops the record, it only costs
// quality score downstream.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Version     string   `json:"version,omitempty"`
	Content     string   `json:"content"`
	Source      Source   `json:"source"`
	ParseErrors []string `json:"parseErrors,omitempty"`
}

var titler = cases.Title(language.English)

// DisplayName returns the header name, or a title-cased rendering of the id
// when the header never supplied one.
func (s Skill) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return titler.String(strings.ReplaceAll(strings.ReplaceAll(s.ID, "-", " "), "_", " "))
}

// IDFromPath derives the skill id from the containing directory name, falling
// back to the file stem for documents at the repository root.
func IDFromPath(path string) string {
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) >= 2 {
		return NormalizeID(parts[len(parts)-2])
	}
	base := parts[len(parts)-1]
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return NormalizeID(base)
}

// NormalizeID lowercases and hyphenates a raw directory or file name.
func NormalizeID(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "-")
	return name
}
