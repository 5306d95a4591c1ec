package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewprompt/internal/github"
)

func TestPRInfoRoundTrip(t *testing.T) {
	m := NewManagerWithBase(t.TempDir())

	info := &github.PRInfo{
		Number:     7,
		Title:      "Add caching layer",
		Author:     "octocat",
		Repository: "acme/widget",
	}
	require.NoError(t, m.SavePRInfo(7, info))

	loaded, err := m.LoadPRInfo(7)
	require.NoError(t, err)
	assert.Equal(t, info, loaded)
}

func TestCommentsRoundTrip(t *testing.T) {
	m := NewManagerWithBase(t.TempDir())

	comments := []github.RawComment{
		{ID: 1, ThreadID: "rc-1", Body: "first", File: "a.go", Line: 3},
		{ID: 2, ThreadID: "rc-1", Body: "second"},
	}
	require.NoError(t, m.SaveComments(7, comments))

	loaded, err := m.LoadComments(7)
	require.NoError(t, err)
	assert.Equal(t, comments, loaded)
}

func TestSaveDocument(t *testing.T) {
	base := t.TempDir()
	m := NewManagerWithBase(base)

	path, err := m.SaveDocument(7, "md", "# Document\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "PR-7", "prompt.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Document\n", string(data))
}

func TestHasSnapshot(t *testing.T) {
	m := NewManagerWithBase(t.TempDir())

	assert.False(t, m.HasSnapshot(7))
	require.NoError(t, m.SaveComments(7, nil))
	assert.True(t, m.HasSnapshot(7))
}

func TestLoadMissingSnapshot(t *testing.T) {
	m := NewManagerWithBase(t.TempDir())

	_, err := m.LoadComments(404)
	assert.Error(t, err)

	_, err = m.LoadPRInfo(404)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "info.json")
}
