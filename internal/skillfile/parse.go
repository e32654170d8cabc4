package skillfile

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

type header struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tags        any    `yaml:"tags"`
	Version     string `yaml:"version"`
}

// Parse splits raw into front matter and body and builds a Skill record.
// Header problems are recorded on ParseErrors rather than returned: during a
// broad crawl a malformed header is an expected, non-fatal outcome.
func Parse(raw, path string, src Source) Skill {
	s := Skill{
		ID:     IDFromPath(path),
		Source: src,
	}
	s.Source.Path = path

	front, body, ok := splitFrontMatter(raw)
	s.Content = body
	if !ok {
		s.Content = raw
		s.ParseErrors = append(s.ParseErrors, "missing front matter fences")
		return s
	}

	var h header
	if err := yaml.Unmarshal([]byte(front), &h); err != nil {
		s.ParseErrors = append(s.ParseErrors, fmt.Sprintf("front matter: %v", err))
		return s
	}
	s.Name = strings.TrimSpace(h.Name)
	s.Description = strings.TrimSpace(h.Description)
	s.Tags = normalizeTags(h.Tags)
	s.Version = NormalizeVersion(h.Version)
	if s.Name == "" && s.Description == "" {
		s.ParseErrors = append(s.ParseErrors, "front matter has neither name nor description")
	}
	return s
}

// splitFrontMatter returns (header, body, true) for documents opening with a
// "---" fence pair, and ("", _, false) otherwise.
func splitFrontMatter(raw string) (string, string, bool) {
	trimmed := strings.TrimPrefix(raw, "\ufeff")
	if !strings.HasPrefix(trimmed, "---") {
		return "", raw, false
	}
	parts := strings.SplitN(trimmed, "---", 3)
	if len(parts) < 3 {
		return "", raw, false
	}
	return strings.TrimSpace(parts[1]), strings.TrimPrefix(parts[2], "\n"), true
}

// normalizeTags accepts either a YAML list or a comma-separated scalar and
// returns a deduplicated lowercase slice.
func normalizeTags(v any) []string {
	var raw []string
	switch tv := v.(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(tv, ",")
	case []any:
		for _, item := range tv {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	seen := map[string]struct{}{}
	var out []string
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// NormalizeVersion canonicalizes a front matter version to vMAJOR.MINOR.PATCH
// form. Unparseable versions pass through untouched so nothing is lost.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	withV := v
	if !strings.HasPrefix(withV, "v") {
		withV = "v" + withV
	}
	if semver.IsValid(withV) {
		return semver.Canonical(withV)
	}
	return v
}

// CompareVersions orders two normalized versions; non-semver values sort
// below any valid semver.
func CompareVersions(a, b string) int {
	av, bv := semver.IsValid(a), semver.IsValid(b)
	switch {
	case av && bv:
		return semver.Compare(a, b)
	case av:
		return 1
	case bv:
		return -1
	default:
		return strings.Compare(a, b)
	}
}
