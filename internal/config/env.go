package config

import (
	"os"

	"github.com/joho/godotenv"
)

// GitHubToken returns the API credential, if any. A .env file in the working
// directory is loaded first; variables already set in the environment win.
// An empty return is a supported degraded mode, not an error.
func GitHubToken() string {
	_ = godotenv.Load()
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return tok
	}
	return os.Getenv("GH_TOKEN")
}
