package agg

import (
	"errors"
	"path"
	"time"

	"github.com/huangsam/commitpulse/schema"
)

// Combine merges the collections of several repositories into one.
// File paths are prefixed with their repository so equal paths from
// different repositories are counted separately.
func Combine(collections ...schema.CommitCollection) (schema.CommitCollection, error) {
	if len(collections) == 0 {
		return schema.CommitCollection{}, errors.New("no collections to combine")
	}
	if len(collections) == 1 {
		return collections[0], nil
	}

	var (
		start, end time.Time
		scanned    []string
		failed     []string
		total      int
	)
	dedup := NewDeduplicator("")
	for i, col := range collections {
		if i == 0 || col.Start.Before(start) {
			start = col.Start
		}
		if i == 0 || col.End.After(end) {
			end = col.End
		}
		for _, b := range col.BranchesScanned {
			scanned = append(scanned, col.Repository+":"+b)
		}
		for _, b := range col.BranchesFailed {
			failed = append(failed, col.Repository+":"+b)
		}
		total += col.BranchesTotal

		for _, c := range col.Commits {
			dedup.Add(c.Branch, []schema.CommitRecord{qualifyFiles(c, col.Repository)})
		}
	}

	out, err := NewCollection(schema.MultiRepository, start, end, dedup.Commits())
	if err != nil {
		return schema.CommitCollection{}, err
	}
	out.BranchesScanned = scanned
	out.BranchesFailed = failed
	out.BranchesTotal = total
	return out, nil
}

// qualifyFiles returns a copy of c whose file names carry the collection's repository.
// The commit's own Repository may be a bare directory name shared by several repositories.
func qualifyFiles(c schema.CommitRecord, repo string) schema.CommitRecord {
	if c.Repository == "" {
		c.Repository = repo
	}
	files := make([]schema.FileChange, len(c.Files))
	for i, f := range c.Files {
		f.Filename = path.Join(repo, f.Filename)
		files[i] = f
	}
	c.Files = files
	return c
}
