package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// LocalGitClient runs the git binary found on PATH.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{}

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// gitGlobalArgs keep paths unquoted in --numstat output.
var gitGlobalArgs = []string{"--no-pager", "-c", "core.quotepath=off"}

// Run executes a git command inside repoPath and returns its stdout.
// Output is produced under the C locale with prompts disabled.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := make([]string, 0, len(gitGlobalArgs)+2+len(args))
	fullArgs = append(fullArgs, gitGlobalArgs...)
	fullArgs = append(fullArgs, "-C", repoPath)
	fullArgs = append(fullArgs, args...)

	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	cmd.Env = append(os.Environ(), "LC_ALL=C", "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr):
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		if isEmptyHistory(stderr) {
			return nil, nil
		}
		return nil, fmt.Errorf("git %s failed in %q: %s", firstArg(args), repoPath, stderr)
	default:
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
}

// isEmptyHistory reports whether git failed only because the branch has no commits yet.
func isEmptyHistory(stderr string) bool {
	return strings.Contains(stderr, "does not have any commits yet")
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
