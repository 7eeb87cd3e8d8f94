// Package repo classifies Git repositories found by the collector by pulling
// them through a pluggable backend.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrGitOperation indicates a failure during a Git operation performed via a
// Puller. Implementations should wrap specific underlying errors with this
// variable (using Errorf or fmt.Errorf %w) so callers can use errors.Is.
var ErrGitOperation = errors.New("git operation failed")

// PullResult classifies a pull that did not fail.
type PullResult string

// Constants representing the defined pull results.
const (
	PullUpdated      PullResult = "updated"
	PullUpToDate     PullResult = "up to date"
	PullAuthRequired PullResult = "auth required"
)

// Puller updates a single working copy from its upstream. Implementations
// might use the native `git` command via `os/exec` or a library like `go-git`.
//
// Implementations MUST NOT prompt for credentials: a pull that needs them
// returns PullAuthRequired with a nil error. Every other failure returns an
// error wrapping ErrGitOperation. Implementations must be safe for concurrent
// use on different repositories.
type Puller interface {
	Pull(ctx context.Context, repoPath string) (PullResult, error)
}

// Errorf returns a formatted error that wraps ErrGitOperation.
// Helper intended for use by Puller implementations.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrGitOperation}, args...)...)
}

// authMarkers are lowercase fragments of git/ssh output that mean the remote
// wanted credentials.
var authMarkers = []string{
	"authentication failed",
	"could not read username",
	"could not read password",
	"terminal prompts disabled",
	"credentials",
	"access denied",
	"permission denied",
	"unable to authenticate",
}

// ExitCodeFatal is the exit status git uses for fatal errors, which includes
// remotes that refuse anonymous access.
const ExitCodeFatal = 128

// IsAuthFailure reports whether output from a failed pull indicates missing
// or rejected credentials.
func IsAuthFailure(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range authMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsUpToDate reports whether successful pull output says nothing changed.
func IsUpToDate(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already up to date") || strings.Contains(lower, "already up-to-date")
}

// ClassifyPull maps the exit code and captured output of `git pull` to a
// result. exitCode is 0 on success.
func ClassifyPull(exitCode int, stdout, stderr string) (PullResult, error) {
	if exitCode == 0 {
		if IsUpToDate(stdout) || IsUpToDate(stderr) {
			return PullUpToDate, nil
		}
		return PullUpdated, nil
	}
	if IsAuthFailure(stderr) || exitCode == ExitCodeFatal {
		return PullAuthRequired, nil
	}
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = strings.TrimSpace(stdout)
	}
	if msg == "" {
		msg = fmt.Sprintf("git pull exited with status %d", exitCode)
	}
	return "", Errorf("%s", msg)
}
