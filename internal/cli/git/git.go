// Package git provides the repo.Puller backends used by git-sync.
package git

import (
	"fmt"
	"log/slog"

	"github.com/stackvity/tree-sweep/internal/cli/config"
	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
)

// NewPuller returns the backend named by backend.
// The exec backend fails when no git binary is on PATH.
func NewPuller(backend string, loggerHandler slog.Handler) (repo.Puller, error) {
	switch backend {
	case config.BackendExec, "":
		client := NewExecGitClient(loggerHandler)
		if !client.IsGitAvailable() {
			return nil, fmt.Errorf("%w: git executable not found in PATH (use --backend=%s)", sweep.ErrConfigValidation, config.BackendGoGit)
		}
		return client, nil
	case config.BackendGoGit:
		return NewGoGitClient(loggerHandler), nil
	default:
		return nil, fmt.Errorf("%w: unknown git backend '%s'", sweep.ErrConfigValidation, backend)
	}
}
