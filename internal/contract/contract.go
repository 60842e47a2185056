// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/commitpulse/schema"
)

// CommitSource supplies raw commits for one repository, one branch at a time.
// This allows the pipeline to be tested without git or network access.
type CommitSource interface {
	// Name identifies the source in cache keys and logs.
	Name() string

	// ListBranches returns the branches of a repository in enumeration order,
	// with the default branch flagged.
	ListBranches(ctx context.Context, repo string) ([]schema.Branch, error)

	// DefaultBranch returns the name of the repository's default branch.
	DefaultBranch(ctx context.Context, repo string) (string, error)

	// FetchCommits returns the commits reachable from branch within [start, end].
	FetchCommits(ctx context.Context, repo, branch string, start, end time.Time) ([]schema.RawCommit, error)
}

// RateLimiter is implemented by sources that spend a remote request budget.
type RateLimiter interface {
	RateLimit(ctx context.Context) (schema.RateLimitStatus, error)
}

// GitClient runs git commands against a local repository.
type GitClient interface {
	// Run executes a git command and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCommitStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
