package contract

import (
	"context"
	"time"

	"github.com/huangsam/commitpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// MockCommitSource is a mock implementation of CommitSource for testing.
type MockCommitSource struct {
	mock.Mock
}

var _ CommitSource = &MockCommitSource{} // Compile-time check

// Name implements the CommitSource interface.
func (m *MockCommitSource) Name() string {
	ret := m.Called()
	return ret.String(0)
}

// ListBranches implements the CommitSource interface.
func (m *MockCommitSource) ListBranches(ctx context.Context, repo string) ([]schema.Branch, error) {
	ret := m.Called(ctx, repo)
	branches, _ := ret.Get(0).([]schema.Branch)
	return branches, ret.Error(1)
}

// DefaultBranch implements the CommitSource interface.
func (m *MockCommitSource) DefaultBranch(ctx context.Context, repo string) (string, error) {
	ret := m.Called(ctx, repo)
	return ret.String(0), ret.Error(1)
}

// FetchCommits implements the CommitSource interface.
func (m *MockCommitSource) FetchCommits(ctx context.Context, repo, branch string, start, end time.Time) ([]schema.RawCommit, error) {
	ret := m.Called(ctx, repo, branch, start, end)
	commits, _ := ret.Get(0).([]schema.RawCommit)
	return commits, ret.Error(1)
}
