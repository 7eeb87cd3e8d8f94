package sweep

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// fsRoot is the root path inside the collector's filesystem.
const fsRoot = "/"

// Collector traverses a directory tree and produces the WorkItems matching a
// Predicate. It is single-threaded and uses an explicit stack.
type Collector struct {
	fs       billy.Filesystem
	root     string
	maxDepth int
	hooks    Hooks
	logger   *slog.Logger
}

// collectFrame is one pending directory on the traversal stack.
type collectFrame struct {
	fsPath string
	rel    string
	depth  int
}

// NewCollector creates a Collector over fsys, which must be rooted at root.
// A nil fsys defaults to the host filesystem rooted at root.
func NewCollector(fsys billy.Filesystem, root string, maxDepth int, hooks Hooks, loggerHandler slog.Handler) *Collector {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	if fsys == nil {
		fsys = osfs.New(root)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	return &Collector{
		fs:       fsys,
		root:     root,
		maxDepth: maxDepth,
		hooks:    hooks,
		logger:   slog.New(loggerHandler).With(slog.String("component", "collector")),
	}
}

// Collect walks the tree and returns every entry accepted by match, sorted by
// relative path. Unreadable directories, symbolic links and directories deeper
// than the depth bound are skipped; nothing here is fatal.
func (c *Collector) Collect(match Predicate) []WorkItem {
	c.logger.Debug("Starting collection", slog.String("root", c.root), slog.Int("maxDepth", c.maxDepth))

	items := make([]WorkItem, 0, 64)
	stack := []collectFrame{{fsPath: fsRoot, rel: "", depth: 0}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.depth > c.maxDepth {
			c.logger.Warn("Maximum depth reached, not descending", slog.String("path", frame.rel), slog.Int("maxDepth", c.maxDepth))
			continue
		}

		infos, err := c.fs.ReadDir(frame.fsPath)
		if err != nil {
			err = fmt.Errorf("%w: read directory %q: %w", ErrCollection, frame.rel, err)
			c.logger.Warn("Failed to read directory", slog.String("path", frame.rel), slog.String("error", err.Error()))
			continue
		}

		for _, info := range infos {
			if info == nil {
				continue
			}
			name := info.Name()
			rel := path.Join(frame.rel, name)

			if info.Mode()&os.ModeSymlink != 0 {
				c.logger.Debug("Skipping symbolic link", slog.String("path", rel))
				continue
			}

			entry := Entry{
				Path:    filepath.Join(c.root, filepath.FromSlash(rel)),
				RelPath: rel,
				Info:    info,
				fs:      c.fs,
				fsPath:  c.fs.Join(frame.fsPath, name),
			}

			if c.matches(match, entry) {
				item := WorkItem{Path: entry.Path, RelPath: rel}
				items = append(items, item)
				if hookErr := c.hooks.OnItemDiscovered(item); hookErr != nil {
					c.logger.Warn("Event hook OnItemDiscovered failed", slog.String("path", rel), slog.String("error", hookErr.Error()))
				}
				continue
			}

			if info.IsDir() {
				stack = append(stack, collectFrame{fsPath: entry.fsPath, rel: rel, depth: frame.depth + 1})
			}
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].RelPath < items[j].RelPath })
	c.logger.Debug("Collection completed", slog.Int("items", len(items)))
	return items
}

// matches evaluates the predicate, treating a panic as a non-match.
func (c *Collector) matches(match Predicate, entry Entry) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Predicate panicked, skipping entry", slog.String("path", entry.RelPath), slog.Any("panicValue", r))
			ok = false
		}
	}()
	return match(entry)
}

// CollectPaths collects matching entries below root on the host filesystem.
func CollectPaths(root string, match Predicate, loggerHandler slog.Handler) ([]WorkItem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot access root path '%s': %w", ErrConfigValidation, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: root path '%s' is not a directory", ErrConfigValidation, root)
	}
	return NewCollector(nil, root, DefaultMaxDepth, nil, loggerHandler).Collect(match), nil
}
