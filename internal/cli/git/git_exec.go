package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
)

// nonInteractiveEnv keeps git and ssh from waiting on a credential prompt.
var nonInteractiveEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GIT_ASKPASS=echo",
	"GIT_SSH_COMMAND=ssh -o BatchMode=yes -o StrictHostKeyChecking=accept-new",
}

// ExecGitClient implements repo.Puller by running the git binary.
type ExecGitClient struct {
	logger *slog.Logger
	binary string
}

// NewExecGitClient creates a new ExecGitClient.
func NewExecGitClient(loggerHandler slog.Handler) *ExecGitClient {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"), slog.String("backend", "exec"))
	logger.Debug("Using 'exec' backend for Git operations.")
	return &ExecGitClient{logger: logger, binary: "git"}
}

// IsGitAvailable checks if the git command is available in the system's PATH.
func (c *ExecGitClient) IsGitAvailable() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// runGitCommand executes git in repoPath and returns its trimmed stdout and
// stderr plus the exit code. err is set only when git could not be run.
func (c *ExecGitClient) runGitCommand(ctx context.Context, repoPath string, args ...string) (string, string, int, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, c.binary, fullArgs...)
	cmd.Env = append(os.Environ(), nonInteractiveEnv...)
	cmd.Stdin = nil
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	stdoutStr := strings.TrimSpace(stdout.String())
	stderrStr := strings.TrimSpace(stderr.String())

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdoutStr, stderrStr, -1, fmt.Errorf("command 'git %s' context error in %s: %w", strings.Join(args, " "), repoPath, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stdoutStr, stderrStr, exitErr.ExitCode(), nil
		}
		return stdoutStr, stderrStr, -1, fmt.Errorf("command 'git %s' failed in %s: %w", strings.Join(args, " "), repoPath, runErr)
	}
	return stdoutStr, stderrStr, 0, nil
}

// Pull implements repo.Puller with `git -C <repo> pull`.
func (c *ExecGitClient) Pull(ctx context.Context, repoPath string) (repo.PullResult, error) {
	logArgs := []any{slog.String("repo", repoPath)}
	c.logger.Debug("ExecGitClient: Pulling", logArgs...)

	stdout, stderr, exitCode, err := c.runGitCommand(ctx, repoPath, "pull")
	if err != nil {
		c.logger.Debug("git pull could not run", append(logArgs, slog.Any("error", err))...)
		return "", repo.Errorf("%w", err)
	}

	result, err := repo.ClassifyPull(exitCode, stdout, stderr)
	c.logger.Debug("git pull finished", append(logArgs,
		slog.Int("exitCode", exitCode),
		slog.String("result", string(result)),
		slog.String("stderr", stderr),
	)...)
	return result, err
}
