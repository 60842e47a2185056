package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/commitpulse/core/agg"
	"github.com/huangsam/commitpulse/core/classify"
	"github.com/huangsam/commitpulse/core/insight"
	"github.com/huangsam/commitpulse/core/trend"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
)

// branchResult is the outcome of fetching one branch. Only complete fetches carry commits.
type branchResult struct {
	branch  string
	commits []schema.RawCommit
	err     error
}

// runAnalysisCore collects every configured repository and runs the analysis pipeline.
func runAnalysisCore(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager) (*schema.AnalysisResult, error) {
	if !shouldSuppressHeader(ctx) {
		printAnalysisHeader(cfg, source.Name())
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetCommitStore()
	}
	classifier := classify.Default()

	collections := make([]schema.CommitCollection, 0, len(cfg.Repos))
	for _, repo := range cfg.Repos {
		col, err := collectRepo(ctx, cfg, source, store, classifier, repo)
		if err != nil {
			return nil, err
		}
		collections = append(collections, col)
	}

	collection, err := agg.Combine(collections...)
	if err != nil {
		return nil, err
	}
	report := trend.New(trend.WithLimits(reportLimits(cfg))).Analyze(collection.Commits)
	return &schema.AnalysisResult{
		Collection: collection,
		Trends:     report,
		Insights:   insight.GenerateWithOptions(report, insight.Options{UseEmojis: cfg.UseEmojis}),
	}, nil
}

// reportLimits applies the configured ranking size to the contributor and file lists.
func reportLimits(cfg *contract.Config) trend.Limits {
	limits := trend.DefaultLimits()
	if cfg.ResultLimit > 0 {
		limits.Contributors = cfg.ResultLimit
		limits.Files = cfg.ResultLimit
	}
	return limits
}

// collectRepo fetches the branches of one repository concurrently and merges them into a collection.
func collectRepo(ctx context.Context, cfg *contract.Config, source contract.CommitSource, store contract.CacheStore, classifier *classify.Classifier, repo string) (schema.CommitCollection, error) {
	start, end := cfg.GetAnalysisStartTime(), cfg.GetAnalysisEndTime()

	defaultBranch := cfg.DefaultBranch
	if defaultBranch == "" {
		name, err := source.DefaultBranch(ctx, repo)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot detect default branch of %s, assuming %s", repo, schema.DefaultBranchLabel), err)
			name = schema.DefaultBranchLabel
		}
		defaultBranch = name
	}

	branches, total := selectBranches(ctx, cfg, source, repo, defaultBranch)
	fetch := cachedFetcher(source, store, repo, start, end, cfg.CacheTTL)
	results := fetchBranches(ctx, cfg, fetch, repo, branches)

	dedup := agg.NewDeduplicator(defaultBranch)
	var (
		scanned  []string
		failed   []string
		failures []schema.BranchFailure
	)
	for _, r := range results {
		if r.err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping branch %s of %s", r.branch, repo), r.err)
			failed = append(failed, r.branch)
			failures = append(failures, schema.BranchFailure{Branch: r.branch, Err: r.err})
			continue
		}
		records := make([]schema.CommitRecord, 0, len(r.commits))
		for _, raw := range r.commits {
			raw.Files = contract.FilterFiles(raw.Files, cfg.Excludes)
			records = append(records, classifier.Record(raw, r.branch))
		}
		dedup.Add(r.branch, records)
		scanned = append(scanned, r.branch)
	}

	if err := ctx.Err(); err != nil {
		return schema.CommitCollection{}, err
	}
	if len(results) > 0 && len(failed) == len(results) {
		return schema.CommitCollection{}, &schema.SourceUnavailableError{Repository: repo, Failures: failures}
	}

	col, err := agg.NewCollection(repo, start, end, dedup.Commits())
	if err != nil {
		return schema.CommitCollection{}, fmt.Errorf("cannot aggregate %s: %w", repo, err)
	}
	col.BranchesScanned = scanned
	col.BranchesFailed = failed
	col.BranchesTotal = total

	contract.LogDebug("repository collected", map[string]any{
		"repo":     repo,
		"commits":  len(col.Commits),
		"branches": len(scanned),
		"failed":   len(failed),
	})
	return col, nil
}

// selectBranches returns the branches to fetch, default branch first, and the number of branches known.
// An explicit branch list wins over enumeration. Enumerated branches beyond MaxBranches are dropped.
func selectBranches(ctx context.Context, cfg *contract.Config, source contract.CommitSource, repo, defaultBranch string) ([]string, int) {
	if len(cfg.Branches) > 0 {
		return cfg.Branches, len(cfg.Branches)
	}

	listed, err := source.ListBranches(ctx, repo)
	if err != nil || len(listed) == 0 {
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot list branches of %s, using %s only", repo, defaultBranch), err)
		}
		return []string{defaultBranch}, 1
	}

	names := make([]string, 0, len(listed))
	names = append(names, defaultBranch)
	for _, b := range listed {
		if b.Name != defaultBranch {
			names = append(names, b.Name)
		}
	}

	limit := cfg.MaxBranches
	if limit <= 0 {
		limit = contract.DefaultMaxBranches
	}
	if len(names) > limit {
		contract.LogInfo("branch limit reached", map[string]any{"repo": repo, "branches": len(names), "limit": limit})
		names = names[:limit]
	}
	return names, len(listed)
}

// fetchBranches fetches every branch with at most cfg.Workers fetches in flight.
// Results are returned in the order of branches regardless of completion order.
func fetchBranches(ctx context.Context, cfg *contract.Config, fetch branchFetcher, repo string, branches []string) []branchResult {
	results := make([]branchResult, len(branches))

	var bar *progressbar.ProgressBar
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut && len(branches) > 1 {
		bar = newFetchProgress(repo, len(branches))
	}

	workers := max(cfg.Workers, 1)
	p := pool.New().WithMaxGoroutines(workers)
	for i, branch := range branches {
		p.Go(func() {
			results[i] = branchResult{branch: branch}
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return
			}
			commits, err := fetch(ctx, branch)
			if err != nil {
				results[i].err = err
			} else {
				results[i].commits = commits
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		})
	}
	p.Wait()

	if bar != nil {
		_ = bar.Finish()
		_ = bar.Clear()
	}
	return results
}

// IsSourceUnavailable reports whether err means a repository could not be fetched at all.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, schema.ErrSourceUnavailable)
}

// windowLabel formats the analysis window for headers and logs.
func windowLabel(start, end time.Time) string {
	return fmt.Sprintf("%s → %s", start.Format(contract.DateTimeFormat), end.Format(contract.DateTimeFormat))
}
