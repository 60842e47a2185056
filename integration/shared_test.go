//go:build basic || database || integration

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared commitpulse binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the commitpulse binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "commitpulse-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "commitpulse")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build commitpulse: %v\n%s", err, out))
		}
		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runCommand runs the binary in dir and returns stdout. Stderr is logged on failure.
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// fixtureCommit is one commit of a fixture repository.
type fixtureCommit struct {
	branch  string
	file    string
	content string
	message string
	date    string
}

// git runs a git command inside dir with a fixed identity and dates.
func git(t *testing.T, dir, date string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Fixture Author",
		"GIT_AUTHOR_EMAIL=fixture@example.com",
		"GIT_COMMITTER_NAME=Fixture Author",
		"GIT_COMMITTER_EMAIL=fixture@example.com",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	if date != "" {
		cmd.Env = append(cmd.Env, "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
	}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// newFixtureRepo creates a repository with a main branch and a dev branch that
// shares the first two commits of main.
func newFixtureRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git(t, dir, "", "init", "--initial-branch=main")
	git(t, dir, "", "config", "commit.gpgsign", "false")

	commits := []fixtureCommit{
		{"main", "app.go", "package app\n", "feat: bootstrap app", "2024-01-01T10:00:00Z"},
		{"main", "README.md", "# app\n", "docs: add readme", "2024-01-01T11:00:00Z"},
		{"dev", "app.go", "package app\n\nfunc Run() {}\n", "fix: run entrypoint", "2024-01-02T09:00:00Z"},
		{"dev", "auth/token.go", "package auth\n", "feat: token auth\n\nBREAKING CHANGE: new login", "2024-01-02T10:00:00Z"},
		{"main", "app_test.go", "package app\n", "test: cover bootstrap", "2024-01-03T08:00:00Z"},
	}
	for i, c := range commits {
		if i == 2 {
			git(t, dir, "", "checkout", "-b", "dev")
		}
		current := git(t, dir, "", "rev-parse", "--abbrev-ref", "HEAD")
		if current != c.branch {
			git(t, dir, "", "checkout", c.branch)
		}
		path := filepath.Join(dir, c.file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(c.content), 0o644))
		git(t, dir, "", "add", c.file)
		git(t, dir, c.date, "commit", "-m", c.message)
	}
	git(t, dir, "", "checkout", "main")
	return dir
}

// fixtureArgs selects the whole fixture history without touching the user cache.
func fixtureArgs(extra ...string) []string {
	args := []string{"analyze", "--start", "2023-12-31T00:00:00Z", "--end", "2024-01-04T00:00:00Z"}
	return append(args, extra...)
}
