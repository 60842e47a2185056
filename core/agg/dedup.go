// Package agg has deduplication and aggregation logic for commit collections.
package agg

import (
	"sort"
	"sync"

	"github.com/huangsam/commitpulse/schema"
)

// Deduplicator merges commits seen on several branches into one record per sha.
// Each Add call inserts one complete branch result under a lock, so partial
// fetches never leak into the merged set.
type Deduplicator struct {
	mu            sync.Mutex
	defaultBranch string
	order         []string
	bySHA         map[string]*schema.CommitRecord
}

// NewDeduplicator creates a deduplicator. Commits labeled with defaultBranch
// (or with no label at all) may later be relabeled with a more specific branch.
func NewDeduplicator(defaultBranch string) *Deduplicator {
	return &Deduplicator{
		defaultBranch: defaultBranch,
		bySHA:         make(map[string]*schema.CommitRecord),
	}
}

// IsPlaceholder reports whether a branch label only says "default branch".
func (d *Deduplicator) IsPlaceholder(branch string) bool {
	return branch == "" || branch == d.defaultBranch
}

// Add merges the commits fetched from one branch.
// Content of an already-seen sha is never replaced. Its label is upgraded only
// when the stored label is a placeholder and the new one is not.
func (d *Deduplicator) Add(branch string, commits []schema.CommitRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range commits {
		if existing, ok := d.bySHA[c.SHA]; ok {
			if d.IsPlaceholder(existing.Branch) && !d.IsPlaceholder(branch) {
				existing.Branch = branch
			}
			continue
		}
		rec := c
		rec.Branch = branch
		d.bySHA[c.SHA] = &rec
		d.order = append(d.order, c.SHA)
	}
}

// Len returns the number of unique commits seen so far.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.bySHA)
}

// Commits returns the merged commits, newest first.
func (d *Deduplicator) Commits() []schema.CommitRecord {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]schema.CommitRecord, 0, len(d.order))
	for _, sha := range d.order {
		out = append(out, *d.bySHA[sha])
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders commits by timestamp descending. Equal timestamps are ordered by sha.
func SortNewestFirst(commits []schema.CommitRecord) {
	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].Timestamp.Equal(commits[j].Timestamp) {
			return commits[i].Timestamp.After(commits[j].Timestamp)
		}
		return commits[i].SHA < commits[j].SHA
	})
}
