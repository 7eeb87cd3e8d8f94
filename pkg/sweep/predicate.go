package sweep

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Entry is a candidate path handed to a Predicate during collection.
type Entry struct {
	// Path is the absolute filesystem path.
	Path string
	// RelPath is slash-separated and relative to the collection root.
	RelPath string
	// Info is the Lstat result for the entry.
	Info os.FileInfo

	fs     billy.Filesystem
	fsPath string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Info != nil && e.Info.IsDir() }

// HasChildDir reports whether the entry is a directory containing a
// subdirectory with the given name. Symlinked markers do not count.
func (e Entry) HasChildDir(name string) bool {
	if !e.IsDir() || e.fs == nil {
		return false
	}
	fi, err := e.fs.Lstat(e.fs.Join(e.fsPath, name))
	if err != nil {
		return false
	}
	return fi.IsDir()
}

// Predicate decides whether a collected entry becomes a WorkItem.
// A matched directory is emitted and not descended into.
type Predicate func(entry Entry) bool

// MatchExtensions matches regular files whose extension (case-insensitive)
// is one of exts. Extensions may be given with or without the leading dot.
func MatchExtensions(exts ...string) Predicate {
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = struct{}{}
	}
	return func(e Entry) bool {
		if e.Info == nil || !e.Info.Mode().IsRegular() {
			return false
		}
		_, ok := wanted[strings.ToLower(filepath.Ext(e.Path))]
		return ok
	}
}

// HasMarkerDir matches directories that contain a subdirectory called marker,
// e.g. ".git" for repository roots.
func HasMarkerDir(marker string) Predicate {
	return func(e Entry) bool {
		return e.HasChildDir(marker)
	}
}

// Any matches when at least one of the predicates matches.
func Any(preds ...Predicate) Predicate {
	return func(e Entry) bool {
		for _, p := range preds {
			if p != nil && p(e) {
				return true
			}
		}
		return false
	}
}
