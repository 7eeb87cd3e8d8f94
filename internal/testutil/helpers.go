package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// CreateDummyFile creates a dummy file with specified content at the given path,
// ensuring parent directories exist. It uses require assertions for test setup.
func CreateDummyFile(t *testing.T, path string, content string) {
	t.Helper()
	fullPath := filepath.Clean(path)
	dir := filepath.Dir(fullPath)
	err := os.MkdirAll(dir, 0755)
	require.NoError(t, err, "Failed to create directory %s for dummy file", dir)
	err = os.WriteFile(fullPath, []byte(content), 0644)
	require.NoError(t, err, "Failed to write dummy file %s", fullPath)
}

// CreateDummyDir ensures a directory exists at the given path, creating parents if needed.
func CreateDummyDir(t *testing.T, path string) {
	t.Helper()
	err := os.MkdirAll(filepath.Clean(path), 0755)
	require.NoError(t, err, "Failed to create dummy directory %s", path)
}

// CreateTree populates fs from a map of slash-separated paths to contents.
// A path ending in "/" creates an empty directory.
func CreateTree(t *testing.T, fs billy.Filesystem, tree map[string]string) {
	t.Helper()
	for p, content := range tree {
		if p[len(p)-1] == '/' {
			require.NoError(t, fs.MkdirAll(p, 0755), "Failed to create directory %s", p)
			continue
		}
		require.NoError(t, util.WriteFile(fs, p, []byte(content), 0644), "Failed to write %s", p)
	}
}

// NewTestLogger returns a debug-level text handler writing to the returned buffer.
func NewTestLogger() (slog.Handler, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}), buf
}
