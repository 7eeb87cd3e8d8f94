package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stackvity/tree-sweep/internal/cli/config"
	"github.com/stackvity/tree-sweep/internal/testutil"
	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignature() *object.Signature {
	return &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}
}

// goGitCommit writes name into the work tree of r and commits it.
func goGitCommit(t *testing.T, r *git.Repository, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{Author: testSignature()})
	require.NoError(t, err)
}

func TestGoGitClient_PullUpToDateThenUpdated(t *testing.T) {
	// Local clones go through the upload-pack service.
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("Skipping go-git clone test: git-upload-pack not found in PATH")
	}
	originDir := t.TempDir()
	origin, err := git.PlainInit(originDir, false)
	require.NoError(t, err)
	goGitCommit(t, origin, originDir, "README.md", "# Initial commit\n")

	cloneDir := filepath.Join(t.TempDir(), "clone")
	_, err = git.PlainClone(cloneDir, false, &git.CloneOptions{URL: originDir})
	require.NoError(t, err)

	handler, _ := testutil.NewTestLogger()
	client := NewGoGitClient(handler)

	result, err := client.Pull(context.Background(), cloneDir)
	require.NoError(t, err)
	assert.Equal(t, repo.PullUpToDate, result)

	goGitCommit(t, origin, originDir, "main.go", "package main\n")

	result, err = client.Pull(context.Background(), cloneDir)
	require.NoError(t, err)
	assert.Equal(t, repo.PullUpdated, result)
	assert.FileExists(t, filepath.Join(cloneDir, "main.go"))
}

func TestGoGitClient_NotARepository(t *testing.T) {
	handler, _ := testutil.NewTestLogger()

	result, err := NewGoGitClient(handler).Pull(context.Background(), t.TempDir())

	assert.ErrorIs(t, err, repo.ErrGitOperation)
	assert.Contains(t, err.Error(), "repository not found")
	assert.Empty(t, result)
}

func TestGoGitClient_NoRemote(t *testing.T) {
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	goGitCommit(t, r, dir, "README.md", "x")
	handler, _ := testutil.NewTestLogger()

	_, err = NewGoGitClient(handler).Pull(context.Background(), dir)

	assert.ErrorIs(t, err, repo.ErrGitOperation)
	assert.Contains(t, err.Error(), "remote 'origin' not found")
}

func TestClassifyPullError(t *testing.T) {
	other := errors.New("object not found")
	tests := []struct {
		name    string
		err     error
		want    repo.PullResult
		wantErr bool
	}{
		{"success", nil, repo.PullUpdated, false},
		{"up to date", git.NoErrAlreadyUpToDate, repo.PullUpToDate, false},
		{"auth required", transport.ErrAuthenticationRequired, repo.PullAuthRequired, false},
		{"authorization failed wrapped", fmt.Errorf("fetch: %w", transport.ErrAuthorizationFailed), repo.PullAuthRequired, false},
		{"ssh handshake", errors.New("ssh: handshake failed: ssh: unable to authenticate"), repo.PullAuthRequired, false},
		{"remote missing", git.ErrRemoteNotFound, "", true},
		{"non fast forward", git.ErrNonFastForwardUpdate, "", true},
		{"other", other, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifyPullError(tt.err)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, repo.ErrGitOperation)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := classifyPullError(other)
	assert.ErrorIs(t, err, other)
}

func TestNewPuller(t *testing.T) {
	handler, _ := testutil.NewTestLogger()

	p, err := NewPuller(config.BackendGoGit, handler)
	require.NoError(t, err)
	assert.IsType(t, &GoGitClient{}, p)

	_, err = NewPuller("svn", handler)
	assert.ErrorIs(t, err, sweep.ErrConfigValidation)

	p, err = NewPuller(config.BackendExec, handler)
	if _, lookErr := exec.LookPath("git"); lookErr != nil {
		assert.ErrorIs(t, err, sweep.ErrConfigValidation)
		return
	}
	require.NoError(t, err)
	assert.IsType(t, &ExecGitClient{}, p)
}
