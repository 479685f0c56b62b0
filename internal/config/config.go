package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// GitHub OAuth app. Optional: the read-only API works anonymously,
	// the authorize step fails closed when these are missing.
	GithubClientID     string
	GithubClientSecret string
	GithubCallbackURL  string
	SessionSecret      string

	// Upstream endpoints, overridable for tests.
	GithubAPIURL   string
	GithubOAuthURL string

	// The single repository all lookups target.
	RepoOwner string
	RepoName  string

	// Optional Postgres DSN for the lookup history. Empty keeps history
	// in memory.
	DatabaseURL string
}

func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GithubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GithubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		GithubAPIURL:       getEnv("GITHUB_API_URL", "https://api.github.com"),
		GithubOAuthURL:     getEnv("GITHUB_OAUTH_URL", "https://github.com"),
		RepoOwner:          getEnv("GITHUB_REPO_OWNER", "NixOS"),
		RepoName:           getEnv("GITHUB_REPO_NAME", "nixpkgs"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
	}, err
}

// OAuthConfigured reports whether the authorize step has everything it
// needs to start the redirect dance.
func (c Config) OAuthConfigured() bool {
	return c.GithubClientID != "" && c.GithubCallbackURL != "" && c.SessionSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
