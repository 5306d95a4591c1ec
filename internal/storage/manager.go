// Package storage persists per-PR artifacts under .review-prompt/: the raw
// comment snapshot taken at fetch time and the rendered document. The
// snapshot is an input artifact for offline re-rendering, not a cache of
// derived state; every pipeline stage recomputes from it on each run.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"reviewprompt/internal/github"
)

const defaultBaseDir = ".review-prompt"

// Manager handles reading and writing per-PR artifacts.
type Manager struct {
	baseDir string
}

// NewManager creates a manager rooted at the default directory.
func NewManager() *Manager {
	return &Manager{baseDir: defaultBaseDir}
}

// NewManagerWithBase creates a manager with a custom root (for testing).
func NewManagerWithBase(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

func (m *Manager) prDir(prNumber int) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("PR-%d", prNumber))
}

// SavePRInfo writes PR metadata to .review-prompt/PR-<n>/info.json.
func (m *Manager) SavePRInfo(prNumber int, info *github.PRInfo) error {
	return m.writeJSON(prNumber, "info.json", info)
}

// LoadPRInfo reads a previously saved PR metadata snapshot.
func (m *Manager) LoadPRInfo(prNumber int) (*github.PRInfo, error) {
	var info github.PRInfo
	if err := m.readJSON(prNumber, "info.json", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveComments writes the raw comment snapshot to
// .review-prompt/PR-<n>/comments.json.
func (m *Manager) SaveComments(prNumber int, comments []github.RawComment) error {
	return m.writeJSON(prNumber, "comments.json", comments)
}

// LoadComments reads a previously saved comment snapshot.
func (m *Manager) LoadComments(prNumber int) ([]github.RawComment, error) {
	var comments []github.RawComment
	if err := m.readJSON(prNumber, "comments.json", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// SaveDocument writes a rendered document next to the snapshots. The
// extension follows the output format.
func (m *Manager) SaveDocument(prNumber int, ext, content string) (string, error) {
	dir := m.prDir(prNumber)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, "prompt."+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}

// HasSnapshot reports whether a comment snapshot exists for a PR.
func (m *Manager) HasSnapshot(prNumber int) bool {
	_, err := os.Stat(filepath.Join(m.prDir(prNumber), "comments.json"))
	return err == nil
}

func (m *Manager) writeJSON(prNumber int, name string, v interface{}) error {
	dir := m.prDir(prNumber)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	return os.WriteFile(filepath.Join(dir, name), data, 0644)
}

func (m *Manager) readJSON(prNumber int, name string, v interface{}) error {
	path := filepath.Join(m.prDir(prNumber), name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
