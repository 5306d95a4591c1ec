package github

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// GetGitHubToken retrieves a GitHub token from the supported sources in
// priority order: environment variable first, then the gh CLI.
func GetGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	if token, err := getGHCLIToken(); err == nil && token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN or run 'gh auth login'")
}

// GetTokenWithSource returns the token and which source provided it.
func GetTokenWithSource() (source, token string, err error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return "environment variable", token, nil
	}
	if token, err := getGHCLIToken(); err == nil && token != "" {
		return "gh CLI", token, nil
	}
	return "", "", fmt.Errorf("no GitHub token found")
}

func getGHCLIToken() (string, error) {
	out, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

var remoteURLRegex = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+?)(?:\.git)?/?$`)

// getRepoInfo derives owner and repo from the origin remote URL. Both SSH
// and HTTPS remotes are supported.
func getRepoInfo() (owner, repo string, err error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to read origin remote: %w", err)
	}

	url := strings.TrimSpace(string(out))
	m := remoteURLRegex.FindStringSubmatch(url)
	if m == nil {
		return "", "", fmt.Errorf("origin remote %q is not a GitHub repository", url)
	}
	return m[1], m[2], nil
}

func getCurrentBranch() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("not on a branch")
	}
	return branch, nil
}
