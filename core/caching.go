package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
)

// currentCacheVersion defines the version of the cached branch payload
const currentCacheVersion = 1

// branchFetcher fetches the raw commits of one branch.
type branchFetcher func(ctx context.Context, branch string) ([]schema.RawCommit, error)

// cachedFetcher wraps a source so each branch fetch is served from the commit store when possible.
// A nil store disables caching.
func cachedFetcher(source contract.CommitSource, store contract.CacheStore, repo string, start, end time.Time, ttl time.Duration) branchFetcher {
	return func(ctx context.Context, branch string) ([]schema.RawCommit, error) {
		if store == nil {
			return source.FetchCommits(ctx, repo, branch, start, end)
		}

		key := generateCacheKey(source.Name(), repo, branch, start, end)
		if commits, ok := checkCacheHit(store, key, ttl); ok {
			contract.LogDebug("cache hit", map[string]any{"repo": repo, "branch": branch})
			return commits, nil
		}
		return computeAndStore(ctx, source, store, key, repo, branch, start, end)
	}
}

// checkCacheHit attempts to retrieve and validate a cached branch fetch
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) ([]schema.RawCommit, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion {
		return nil, false
	}
	if ttl > 0 && time.Since(time.Unix(ts, 0)) > ttl {
		return nil, false
	}
	var commits []schema.RawCommit
	if err := json.Unmarshal(data, &commits); err != nil {
		return nil, false
	}
	return commits, true
}

// computeAndStore fetches the branch and stores the result in cache.
// Failed fetches are never cached.
func computeAndStore(ctx context.Context, source contract.CommitSource, store contract.CacheStore, key, repo, branch string, start, end time.Time) ([]schema.RawCommit, error) {
	commits, err := source.FetchCommits(ctx, repo, branch, start, end)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(commits); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache branch fetch", err)
		}
	}
	return commits, nil
}

// generateCacheKey creates a unique key based on the fetch parameters
func generateCacheKey(sourceName, repo, branch string, start, end time.Time) string {
	key := fmt.Sprintf("%s:%s:%s:%d:%d",
		sourceName,
		repo,
		branch,
		start.Unix(),
		end.Unix(),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
