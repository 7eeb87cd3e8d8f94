package sweep_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stackvity/tree-sweep/internal/testutil"
	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func relPaths(items []sweep.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.RelPath
	}
	return out
}

func TestCollector_MatchesExtensionsSorted(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{
		"/b.zip":          "x",
		"/a.ZIP":          "x",
		"/notes.txt":      "x",
		"/sub/c.zip":      "x",
		"/sub/deep/d.zip": "x",
		"/empty/":         "",
	})
	handler, _ := testutil.NewTestLogger()

	items := sweep.NewCollector(fs, "/data", 0, nil, handler).Collect(sweep.MatchExtensions("zip"))

	assert.Equal(t, []string{"a.ZIP", "b.zip", "sub/c.zip", "sub/deep/d.zip"}, relPaths(items))
	assert.Equal(t, filepath.Join("/data", "sub", "deep", "d.zip"), items[3].Path)
}

func TestCollector_DepthGuard(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{
		"/a.zip":             "x",
		"/d1/b.zip":          "x",
		"/d1/d2/c.zip":       "x",
		"/d1/d2/d3/e.zip":    "x",
		"/d1/d2/d3/d4/f.zip": "x",
	})
	handler, logBuf := testutil.NewTestLogger()

	items := sweep.NewCollector(fs, "/r", 2, nil, handler).Collect(sweep.MatchExtensions(".zip"))

	assert.Equal(t, []string{"a.zip", "d1/b.zip", "d1/d2/c.zip"}, relPaths(items))
	assert.Contains(t, logBuf.String(), "Maximum depth reached")
}

func TestCollector_MarkerDirNotDescended(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{
		"/proj/.git/HEAD":               "ref",
		"/proj/vendor/inner/.git/HEAD":  "ref",
		"/group/one/.git/config":        "",
		"/group/two/README":             "",
		"/group/three/.git":             "not a directory",
		"/group/four/sub/five/.git/HEAD": "ref",
	})
	handler, _ := testutil.NewTestLogger()

	items := sweep.NewCollector(fs, "/w", 0, nil, handler).Collect(sweep.HasMarkerDir(".git"))

	assert.Equal(t, []string{"group/four/sub/five", "group/one", "proj"}, relPaths(items))
}

func TestCollector_EmptyFilesystem(t *testing.T) {
	handler, _ := testutil.NewTestLogger()
	items := sweep.NewCollector(memfs.New(), "/nothing", 0, nil, handler).Collect(sweep.MatchExtensions("zip"))
	assert.Empty(t, items)
}

func TestCollector_PredicatePanicIsNonMatch(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{
		"/boom.zip": "x",
		"/ok.zip":   "x",
	})
	handler, logBuf := testutil.NewTestLogger()
	pred := func(e sweep.Entry) bool {
		if strings.HasPrefix(e.RelPath, "boom") {
			panic("predicate exploded")
		}
		return !e.IsDir()
	}

	var items []sweep.WorkItem
	assert.NotPanics(t, func() {
		items = sweep.NewCollector(fs, "/", 0, nil, handler).Collect(pred)
	})
	assert.Equal(t, []string{"ok.zip"}, relPaths(items))
	assert.Contains(t, logBuf.String(), "Predicate panicked")
}

func TestCollector_DiscoveryHook(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{"/x/a.zip": "x", "/b.zip": "x"})
	handler, logBuf := testutil.NewTestLogger()

	hooks := &testutil.MockHooks{}
	hooks.On("OnItemDiscovered", mock.MatchedBy(func(it sweep.WorkItem) bool { return it.RelPath == "x/a.zip" })).Return(nil).Once()
	hooks.On("OnItemDiscovered", mock.MatchedBy(func(it sweep.WorkItem) bool { return it.RelPath == "b.zip" })).Return(errors.New("hook failed")).Once()

	items := sweep.NewCollector(fs, "/", 0, hooks, handler).Collect(sweep.MatchExtensions("zip"))

	assert.Len(t, items, 2)
	hooks.AssertExpectations(t)
	assert.Contains(t, logBuf.String(), "OnItemDiscovered failed")
}

func TestCollector_SymlinksNeverFollowed(t *testing.T) {
	root := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(root, "real", "a.zip"), "x")
	testutil.CreateDummyFile(t, filepath.Join(root, "outside.zip"), "x")
	// A cycle back to the root and a link to a matching file.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "real", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "outside.zip"), filepath.Join(root, "link.zip")))

	handler, _ := testutil.NewTestLogger()
	done := make(chan []sweep.WorkItem, 1)
	go func() {
		items, err := sweep.CollectPaths(root, sweep.MatchExtensions("zip"), handler)
		assert.NoError(t, err)
		done <- items
	}()

	select {
	case items := <-done:
		assert.Equal(t, []string{"outside.zip", "real/a.zip"}, relPaths(items))
	case <-time.After(10 * time.Second):
		t.Fatal("collection did not terminate with a symlink cycle present")
	}
}

func TestCollector_UnreadableDirectorySkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(root, "ok", "a.zip"), "x")
	locked := filepath.Join(root, "locked")
	testutil.CreateDummyFile(t, filepath.Join(locked, "hidden.zip"), "x")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	handler, logBuf := testutil.NewTestLogger()
	items, err := sweep.CollectPaths(root, sweep.MatchExtensions("zip"), handler)

	require.NoError(t, err)
	assert.Equal(t, []string{"ok/a.zip"}, relPaths(items))
	assert.Contains(t, logBuf.String(), "Failed to read directory")
}

func TestCollectPaths_InvalidRoot(t *testing.T) {
	handler, _ := testutil.NewTestLogger()

	_, err := sweep.CollectPaths(filepath.Join(t.TempDir(), "missing"), sweep.MatchExtensions("zip"), handler)
	assert.ErrorIs(t, err, sweep.ErrConfigValidation)

	file := filepath.Join(t.TempDir(), "file.zip")
	testutil.CreateDummyFile(t, file, "x")
	_, err = sweep.CollectPaths(file, sweep.MatchExtensions("zip"), handler)
	assert.ErrorIs(t, err, sweep.ErrConfigValidation)
}

func TestMatchExtensions(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{
		"/a.zip":     "x",
		"/b.Jar":     "x",
		"/c.tar.gz":  "x",
		"/dir.zip/":  "",
		"/noext":     "x",
	})
	handler, _ := testutil.NewTestLogger()

	items := sweep.NewCollector(fs, "/", 0, nil, handler).Collect(sweep.MatchExtensions(".zip", "JAR", " ", "gz"))

	assert.Equal(t, []string{"a.zip", "b.Jar", "c.tar.gz"}, relPaths(items))
}

func TestAny(t *testing.T) {
	fs := memfs.New()
	testutil.CreateTree(t, fs, map[string]string{
		"/a.zip":        "x",
		"/b.rar":        "x",
		"/repo/.git/x":  "x",
		"/repo/c.zip":   "x",
	})
	handler, _ := testutil.NewTestLogger()

	items := sweep.NewCollector(fs, "/", 0, nil, handler).Collect(sweep.Any(nil, sweep.MatchExtensions("zip"), sweep.HasMarkerDir(".git")))

	assert.Equal(t, []string{"a.zip", "repo"}, relPaths(items))
}
