package git

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
)

// DefaultRemoteName is the remote pulled from.
const DefaultRemoteName = "origin"

// GoGitClient implements repo.Puller using go-git, without a git binary.
type GoGitClient struct {
	logger *slog.Logger
}

// NewGoGitClient creates a new GoGitClient.
func NewGoGitClient(loggerHandler slog.Handler) *GoGitClient {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"), slog.String("backend", "go-git"))
	logger.Debug("Using 'go-git' backend for Git operations.")
	return &GoGitClient{logger: logger}
}

// openRepo opens the repository whose working tree is repoPath.
func (c *GoGitClient) openRepo(repoPath string) (*git.Repository, error) {
	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, repo.Errorf("failed to get absolute path for repository '%s': %w", repoPath, err)
	}

	r, err := git.PlainOpenWithOptions(absRepoPath, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, repo.Errorf("repository not found at '%s': %w", absRepoPath, err)
		}
		return nil, repo.Errorf("failed to open repository at '%s': %w", absRepoPath, err)
	}
	return r, nil
}

// Pull implements repo.Puller. No credentials are supplied, so remotes that
// require them come back as PullAuthRequired.
func (c *GoGitClient) Pull(ctx context.Context, repoPath string) (repo.PullResult, error) {
	logArgs := []any{slog.String("repo", repoPath)}
	c.logger.Debug("GoGitClient: Pulling", logArgs...)

	r, err := c.openRepo(repoPath)
	if err != nil {
		return "", err
	}
	worktree, err := r.Worktree()
	if err != nil {
		return "", repo.Errorf("failed to get worktree for repository '%s': %w", repoPath, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: DefaultRemoteName})
	result, err := classifyPullError(err)
	c.logger.Debug("go-git pull finished", append(logArgs, slog.String("result", string(result)), slog.Any("error", err))...)
	return result, err
}

// classifyPullError maps the error returned by go-git's pull to a result.
func classifyPullError(err error) (repo.PullResult, error) {
	switch {
	case err == nil:
		return repo.PullUpdated, nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return repo.PullUpToDate, nil
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		repo.IsAuthFailure(err.Error()):
		return repo.PullAuthRequired, nil
	case errors.Is(err, git.ErrRemoteNotFound):
		return "", repo.Errorf("remote '%s' not found", DefaultRemoteName)
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return "", repo.Errorf("non-fast-forward update")
	default:
		return "", repo.Errorf("%w", err)
	}
}
