package ranker

import "github.com/tdclogic1/antigravity-skills/internal/skillfile"

// DefaultCategory is assigned when no keyword rule matches.
const DefaultCategory = "general"

type categoryRule struct {
	name     string
	keywords []string
}

// categoryRules is ordered: a document matching keywords from several
// categories is assigned to whichever rule is listed first. Treat the
// ordering as part of the contract, not an implementation accident.
var categoryRules = []categoryRule{
	{"security", []string{"security", "auth", "authentication", "vulnerability", "crypto", "encryption", "pentest", "cve", "compliance", "secrets"}},
	{"infrastructure", []string{"docker", "kubernetes", "terraform", "aws", "gcp", "azure", "deploy", "deployment", "devops", "cloud", "server", "infra", "ci"}},
	{"data-ai", []string{"data", "ml", "ai", "llm", "model", "embedding", "embeddings", "analytics", "sql", "database", "rag", "prompt"}},
	{"development", []string{"code", "coding", "api", "frontend", "backend", "debug", "debugging", "refactor", "refactoring", "git", "programming", "library"}},
	{"architecture", []string{"architecture", "design", "pattern", "patterns", "microservice", "microservices", "scalability", "system"}},
	{"testing", []string{"test", "tests", "testing", "qa", "coverage", "e2e", "unit"}},
	{"business", []string{"marketing", "sales", "finance", "legal", "product", "business", "seo", "strategy"}},
	{"workflow", []string{"workflow", "automation", "productivity", "notes", "email", "calendar", "task", "tasks"}},
}

// Categories returns the recognized category names in rule order, with the
// default appended.
func Categories() []string {
	out := make([]string, 0, len(categoryRules)+1)
	for _, r := range categoryRules {
		out = append(out, r.name)
	}
	return append(out, DefaultCategory)
}

// Categorize assigns the first rule whose keywords intersect the document's
// token set, built from id, name, description, and tags.
func Categorize(s skillfile.Skill) string {
	texts := append([]string{s.ID, s.Name, s.Description}, s.Tags...)
	tokens := skillfile.Tokens(texts...)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if _, ok := tokens[kw]; ok {
				return rule.name
			}
		}
	}
	return DefaultCategory
}
