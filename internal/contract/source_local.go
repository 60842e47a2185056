package contract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/commitpulse/schema"
)

// LocalGitSource reads commits from repositories on disk through a GitClient.
// Repositories are identified by their filesystem path.
type LocalGitSource struct {
	client        GitClient
	defaultBranch string
}

var _ CommitSource = &LocalGitSource{} // Compile-time check

// NewLocalGitSource creates a source backed by the given git client.
// A non-empty defaultBranch overrides detection.
func NewLocalGitSource(client GitClient, defaultBranch string) *LocalGitSource {
	return &LocalGitSource{client: client, defaultBranch: defaultBranch}
}

// Name implements the CommitSource interface.
func (s *LocalGitSource) Name() string {
	return string(schema.LocalSource)
}

// ListBranches implements the CommitSource interface.
// Branches come back most recently committed first.
func (s *LocalGitSource) ListBranches(ctx context.Context, repo string) ([]schema.Branch, error) {
	out, err := s.client.Run(ctx, repo, "for-each-ref", "--sort=-committerdate", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("list branches of %s: %w", repo, err)
	}
	def, err := s.DefaultBranch(ctx, repo)
	if err != nil {
		return nil, err
	}

	var branches []schema.Branch
	for line := range strings.SplitSeq(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		branches = append(branches, schema.Branch{Name: name, Default: name == def})
	}
	return branches, nil
}

// DefaultBranch implements the CommitSource interface.
// It prefers origin/HEAD, then the checked out branch, then schema.DefaultBranchLabel.
func (s *LocalGitSource) DefaultBranch(ctx context.Context, repo string) (string, error) {
	if s.defaultBranch != "" {
		return s.defaultBranch, nil
	}
	if out, err := s.client.Run(ctx, repo, "symbolic-ref", "--short", "refs/remotes/origin/HEAD"); err == nil {
		if name := strings.TrimPrefix(strings.TrimSpace(string(out)), "origin/"); name != "" {
			return name, nil
		}
	}
	if out, err := s.client.Run(ctx, repo, "symbolic-ref", "--short", "HEAD"); err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name, nil
		}
	}
	return schema.DefaultBranchLabel, nil
}

// FetchCommits implements the CommitSource interface.
func (s *LocalGitSource) FetchCommits(ctx context.Context, repo, branch string, start, end time.Time) ([]schema.RawCommit, error) {
	out, err := s.client.Run(ctx, repo, gitLogArgs(branch, start, end)...)
	if err != nil {
		return nil, fmt.Errorf("fetch commits of %s@%s: %w", repo, branch, err)
	}
	commits := ParseGitLog(out)
	name := filepath.Base(filepath.Clean(repo))
	for i := range commits {
		commits[i].Repository = name
	}
	return commits, nil
}
