// Package github implements a commit source backed by the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const perPage = 100

// Source fetches commits from GitHub with client side throttling.
// Repositories are identified as "owner/name".
type Source struct {
	client        *gh.Client
	limiter       *rate.Limiter
	defaultBranch string
}

var (
	_ contract.CommitSource = &Source{} // Compile-time check
	_ contract.RateLimiter  = &Source{} // Compile-time check
)

// Option customizes a Source.
type Option func(*Source)

// WithBaseURL points the client at another API root, such as GitHub Enterprise or a test server.
func WithBaseURL(raw string) Option {
	return func(s *Source) {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil {
			s.client.BaseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Source) {
		base := s.client.BaseURL
		s.client = gh.NewClient(hc)
		s.client.BaseURL = base
	}
}

// WithDefaultBranch overrides the default branch reported by the API.
func WithDefaultBranch(name string) Option {
	return func(s *Source) {
		s.defaultBranch = name
	}
}

// NewSource creates a GitHub source. An empty token uses anonymous access.
// requestsPerSecond throttles every API call.
func NewSource(token string, requestsPerSecond float64, opts ...Option) *Source {
	s := &Source{
		client:  gh.NewClient(nil),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if token != "" {
		s.client = s.client.WithAuthToken(token)
	}
	return s
}

// Name implements the CommitSource interface.
func (s *Source) Name() string {
	return string(schema.GitHubSource)
}

// DefaultBranch implements the CommitSource interface.
func (s *Source) DefaultBranch(ctx context.Context, repo string) (string, error) {
	if s.defaultBranch != "" {
		return s.defaultBranch, nil
	}
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	r, _, err := s.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return "", fmt.Errorf("fetch repository %s: %w", repo, err)
	}
	if def := r.GetDefaultBranch(); def != "" {
		return def, nil
	}
	return schema.DefaultBranchLabel, nil
}

// ListBranches implements the CommitSource interface.
func (s *Source) ListBranches(ctx context.Context, repo string) ([]schema.Branch, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	def, err := s.DefaultBranch(ctx, repo)
	if err != nil {
		return nil, err
	}

	opts := &gh.BranchListOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	var branches []schema.Branch
	for {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := s.client.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("list branches of %s: %w", repo, err)
		}
		for _, b := range page {
			branches = append(branches, schema.Branch{Name: b.GetName(), Default: b.GetName() == def})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return branches, nil
}

// FetchCommits implements the CommitSource interface.
// Listing does not include files, so each commit is fetched again for its details.
func (s *Source) FetchCommits(ctx context.Context, repo, branch string, start, end time.Time) ([]schema.RawCommit, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &gh.CommitsListOptions{
		SHA:         branch,
		Since:       start,
		Until:       end,
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var commits []schema.RawCommit
	for {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := s.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits of %s@%s: %w", repo, branch, err)
		}
		for _, summary := range page {
			detail, err := s.commitDetail(ctx, owner, name, summary.GetSHA())
			if err != nil {
				return nil, err
			}
			raw := toRawCommit(detail)
			raw.Repository = repo
			commits = append(commits, raw)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	contract.LogDebug("fetched github commits", logrus.Fields{"repo": repo, "branch": branch, "commits": len(commits)})
	return commits, nil
}

// RateLimit implements the RateLimiter interface.
func (s *Source) RateLimit(ctx context.Context) (schema.RateLimitStatus, error) {
	limits, _, err := s.client.RateLimits(ctx)
	if err != nil {
		return schema.RateLimitStatus{}, fmt.Errorf("fetch rate limit: %w", err)
	}
	core := limits.GetCore()
	if core == nil {
		return schema.RateLimitStatus{}, fmt.Errorf("rate limit response has no core budget")
	}
	return schema.RateLimitStatus{
		Source:    s.Name(),
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time.UTC(),
	}, nil
}

// commitDetail fetches one commit with every page of its changed files.
func (s *Source) commitDetail(ctx context.Context, owner, name, sha string) (*gh.RepositoryCommit, error) {
	opts := &gh.ListOptions{PerPage: perPage}
	var detail *gh.RepositoryCommit
	for {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := s.client.Repositories.GetCommit(ctx, owner, name, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch commit %s: %w", sha, err)
		}
		if detail == nil {
			detail = page
		} else {
			detail.Files = append(detail.Files, page.Files...)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return detail, nil
}

func (s *Source) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// toRawCommit maps an API commit into the source-neutral shape.
func toRawCommit(rc *gh.RepositoryCommit) schema.RawCommit {
	c := rc.GetCommit()
	message := c.GetMessage()
	raw := schema.RawCommit{
		SHA:          rc.GetSHA(),
		Message:      message,
		Timestamp:    c.GetAuthor().GetDate().Time,
		URL:          rc.GetHTMLURL(),
		Files:        make([]schema.FileChange, 0, len(rc.Files)),
		PullRequest:  contract.ParsePullRequest(message),
		ClosedIssues: contract.ParseClosedIssues(message),
	}

	if a := c.GetAuthor(); a.GetName() != "" || a.GetEmail() != "" {
		raw.Author = &schema.Person{
			Name:      a.GetName(),
			Email:     a.GetEmail(),
			Username:  rc.GetAuthor().GetLogin(),
			AvatarURL: rc.GetAuthor().GetAvatarURL(),
		}
	}
	if cm := c.GetCommitter(); cm.GetName() != "" || cm.GetEmail() != "" {
		raw.Committer = &schema.Person{
			Name:     cm.GetName(),
			Email:    cm.GetEmail(),
			Username: rc.GetCommitter().GetLogin(),
		}
	}

	for _, f := range rc.Files {
		raw.Files = append(raw.Files, schema.FileChange{
			Filename:  f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetAdditions() + f.GetDeletions(),
			Status:    changeKind(f.GetStatus()),
			Patch:     f.GetPatch(),
		})
	}
	return raw
}

func changeKind(status string) schema.ChangeKind {
	switch status {
	case "added":
		return schema.FileAdded
	case "removed":
		return schema.FileRemoved
	case "renamed":
		return schema.FileRenamed
	default:
		return schema.FileModified
	}
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid GitHub repository %q. must be owner/name", repo)
	}
	return owner, name, nil
}
