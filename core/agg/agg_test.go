package agg

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/commitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func commit(sha string, offset time.Duration, opts ...func(*schema.CommitRecord)) schema.CommitRecord {
	c := schema.CommitRecord{
		SHA:       sha,
		Message:   "update " + sha,
		Author:    schema.Person{Name: "Ada", Email: "ada@example.com", Username: "ada"},
		Timestamp: base.Add(offset),
		Category:  schema.OtherCategory,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func withFiles(files ...schema.FileChange) func(*schema.CommitRecord) {
	return func(c *schema.CommitRecord) {
		c.Files = files
		for _, f := range files {
			c.Additions += f.Additions
			c.Deletions += f.Deletions
		}
		c.TotalChanges = c.Additions + c.Deletions
	}
}

func withAuthor(name, username string) func(*schema.CommitRecord) {
	return func(c *schema.CommitRecord) {
		c.Author = schema.Person{Name: name, Email: name + "@example.com", Username: username}
	}
}

func withCategory(cat schema.Category) func(*schema.CommitRecord) {
	return func(c *schema.CommitRecord) { c.Category = cat }
}

func file(name string, add, del int) schema.FileChange {
	return schema.FileChange{Filename: name, Additions: add, Deletions: del, Changes: add + del, Status: schema.FileModified}
}

func TestDeduplicatorLabels(t *testing.T) {
	tests := []struct {
		name     string
		order    []string
		expected string
	}{
		{"default first then feature", []string{"main", "feature-x"}, "feature-x"},
		{"feature first then default", []string{"feature-x", "main"}, "feature-x"},
		{"first non-default wins", []string{"main", "feature-x", "feature-y"}, "feature-x"},
		{"empty label is a placeholder", []string{"", "release"}, "release"},
		{"only default", []string{"main"}, "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeduplicator("main")
			for _, branch := range tt.order {
				d.Add(branch, []schema.CommitRecord{commit("abc123", 0)})
			}
			got := d.Commits()
			require.Len(t, got, 1)
			assert.Equal(t, tt.expected, got[0].Branch)
		})
	}
}

func TestDeduplicatorKeepsFirstContent(t *testing.T) {
	d := NewDeduplicator("main")
	first := commit("abc123", 0, withFiles(file("a.go", 1, 1)))
	second := commit("abc123", time.Hour, withFiles(file("b.go", 50, 50)))
	second.Message = "different"

	d.Add("main", []schema.CommitRecord{first})
	d.Add("feature-x", []schema.CommitRecord{second})

	got := d.Commits()
	require.Len(t, got, 1)
	assert.Equal(t, first.Message, got[0].Message)
	assert.Equal(t, first.Files, got[0].Files)
	assert.Equal(t, "feature-x", got[0].Branch)
}

func TestDeduplicatorOrderAndIdempotence(t *testing.T) {
	d := NewDeduplicator("main")
	batch := []schema.CommitRecord{
		commit("bbb", time.Hour),
		commit("aaa", 2*time.Hour),
		commit("ccc", time.Hour),
	}
	d.Add("main", batch)
	d.Add("main", batch)

	got := d.Commits()
	require.Len(t, got, 3)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, []string{got[0].SHA, got[1].SHA, got[2].SHA})
}

func TestNewCollectionSummary(t *testing.T) {
	commits := []schema.CommitRecord{
		commit("c1", 0, withCategory(schema.FeatureCategory), withFiles(file("core/a.go", 10, 2), file("README.md", 3, 0))),
		commit("c2", time.Hour, withCategory(schema.BugfixCategory), withFiles(file("core/a.go", 1, 1))),
		commit("c3", 2*time.Hour, withCategory(schema.BugfixCategory), withAuthor("Bob", ""), withFiles(file("core/b.go", 5, 5))),
	}
	commits[1].Breaking = true
	commits[2].Security = true
	commits[0].Author.AvatarURL = "https://avatars.example.com/ada"

	col, err := NewCollection("acme/widgets", base, base.Add(10*time.Hour), commits)
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", col.Repository)
	assert.Equal(t, []string{"c3", "c2", "c1"}, []string{col.Commits[0].SHA, col.Commits[1].SHA, col.Commits[2].SHA})

	s := col.Summary
	assert.Equal(t, 3, s.TotalCommits)
	assert.Equal(t, map[schema.Category]int{schema.FeatureCategory: 1, schema.BugfixCategory: 2}, s.CommitTypes)
	assert.Equal(t, 1, s.BreakingChanges)
	assert.Equal(t, 1, s.SecurityUpdates)
	assert.Equal(t, 2, s.UniqueContributors)
	assert.Equal(t, 3, s.TotalFilesChanged)
	assert.InDelta(t, 10.0, s.TimePeriodHours, 1e-9)
	assert.InDelta(t, 0.3, s.CommitsPerHour, 1e-9)

	require.Len(t, s.TopContributors, 2)
	assert.Equal(t, "ada", s.TopContributors[0].Key)
	assert.Equal(t, 2, s.TopContributors[0].Commits)
	assert.Equal(t, 14, s.TopContributors[0].Additions)
	assert.Equal(t, "https://avatars.example.com/ada", s.TopContributors[0].AvatarURL)
	assert.Equal(t, "Bob", s.TopContributors[1].Key)

	require.Len(t, s.MostChangedFiles, 3)
	assert.Equal(t, schema.FileSummary{Filename: "core/a.go", Changes: 14, Commits: 2}, s.MostChangedFiles[0])
	assert.Equal(t, schema.FileSummary{Filename: "core/b.go", Changes: 10, Commits: 1}, s.MostChangedFiles[1])
}

func TestSummarizeLimits(t *testing.T) {
	var commits []schema.CommitRecord
	for i := range 12 {
		name := fmt.Sprintf("dev%02d", i)
		commits = append(commits, commit(fmt.Sprintf("sha%02d", i), time.Duration(i)*time.Minute,
			withAuthor(name, name),
			withFiles(file(fmt.Sprintf("f%02d.go", i), i+1, 0))))
	}

	s := Summarize(commits, base, base.Add(time.Hour))
	assert.Len(t, s.TopContributors, 5)
	assert.Len(t, s.MostChangedFiles, 10)
	assert.Equal(t, "f11.go", s.MostChangedFiles[0].Filename)

	// Equal commit counts fall back to key order.
	assert.Equal(t, "dev00", s.TopContributors[0].Key)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	commits := []schema.CommitRecord{
		commit("a", 0, withFiles(file("x.go", 1, 2))),
		commit("b", time.Hour, withAuthor("Bob", "bob"), withFiles(file("y.go", 3, 4))),
	}
	first := Summarize(commits, base, base.Add(2*time.Hour))
	second := Summarize(commits, base, base.Add(2*time.Hour))
	assert.Equal(t, first, second)
}

func TestSummarizeZeroSpan(t *testing.T) {
	s := Summarize([]schema.CommitRecord{commit("a", 0)}, base, base)
	assert.Zero(t, s.TimePeriodHours)
	assert.Zero(t, s.CommitsPerHour)

	s = Summarize(nil, base.Add(time.Hour), base)
	assert.Zero(t, s.CommitsPerHour)
}

func TestNewCollectionEmpty(t *testing.T) {
	col, err := NewCollection("acme/widgets", base, base.Add(24*time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, col.Commits)
	assert.Zero(t, col.Summary.TotalCommits)
	assert.Empty(t, col.Summary.CommitTypes)
	assert.Empty(t, col.Summary.TopContributors)
}

func TestNewCollectionInvariants(t *testing.T) {
	t.Run("duplicate sha", func(t *testing.T) {
		_, err := NewCollection("r", base, base, []schema.CommitRecord{commit("a", 0), commit("a", time.Hour)})
		assert.True(t, errors.Is(err, schema.ErrInvariant))
	})

	t.Run("negative counts", func(t *testing.T) {
		c := commit("a", 0)
		c.Additions = -1
		_, err := NewCollection("r", base, base, []schema.CommitRecord{c})
		assert.ErrorIs(t, err, schema.ErrInvariant)
	})

	t.Run("negative file counts", func(t *testing.T) {
		c := commit("a", 0, withFiles(schema.FileChange{Filename: "x.go", Changes: -3}))
		_, err := NewCollection("r", base, base, []schema.CommitRecord{c})
		assert.ErrorIs(t, err, schema.ErrInvariant)
	})
}

func TestCombine(t *testing.T) {
	left, err := NewCollection("acme/api", base, base.Add(24*time.Hour), []schema.CommitRecord{
		commit("l1", time.Hour, withFiles(file("main.go", 5, 0))),
	})
	require.NoError(t, err)
	left.BranchesScanned = []string{"main"}
	left.BranchesTotal = 1

	right, err := NewCollection("acme/web", base.Add(-time.Hour), base.Add(12*time.Hour), []schema.CommitRecord{
		commit("r1", 2*time.Hour, withFiles(file("main.go", 2, 1))),
	})
	require.NoError(t, err)
	right.BranchesScanned = []string{"main", "dev"}
	right.BranchesTotal = 2

	combined, err := Combine(left, right)
	require.NoError(t, err)

	assert.Equal(t, schema.MultiRepository, combined.Repository)
	assert.Equal(t, base.Add(-time.Hour), combined.Start)
	assert.Equal(t, base.Add(24*time.Hour), combined.End)
	assert.Equal(t, 2, combined.Summary.TotalCommits)
	assert.Equal(t, 2, combined.Summary.TotalFilesChanged)
	assert.Equal(t, 3, combined.BranchesTotal)
	assert.Equal(t, []string{"acme/api:main", "acme/web:main", "acme/web:dev"}, combined.BranchesScanned)
	assert.Equal(t, "r1", combined.Commits[0].SHA)
	assert.Equal(t, "acme/web/main.go", combined.Commits[0].Files[0].Filename)

	// Inputs are not modified.
	assert.Equal(t, "main.go", left.Commits[0].Files[0].Filename)
}

func TestCombineSameBaseName(t *testing.T) {
	sameName := func(c *schema.CommitRecord) { c.Repository = "app" }

	first, err := NewCollection("/work/a/app", base, base.Add(time.Hour), []schema.CommitRecord{
		commit("a1", time.Minute, withFiles(file("main.go", 1, 0)), sameName),
	})
	require.NoError(t, err)
	second, err := NewCollection("/work/b/app", base, base.Add(time.Hour), []schema.CommitRecord{
		commit("b1", 2*time.Minute, withFiles(file("main.go", 1, 0)), sameName),
	})
	require.NoError(t, err)

	combined, err := Combine(first, second)
	require.NoError(t, err)
	assert.Equal(t, 2, combined.Summary.TotalFilesChanged)
	require.Len(t, combined.Summary.MostChangedFiles, 2)
	assert.ElementsMatch(t,
		[]string{"/work/a/app/main.go", "/work/b/app/main.go"},
		[]string{combined.Summary.MostChangedFiles[0].Filename, combined.Summary.MostChangedFiles[1].Filename})
	assert.Equal(t, "app", combined.Commits[0].Repository)
}

func TestCombineEdgeCases(t *testing.T) {
	_, err := Combine()
	assert.Error(t, err)

	single, err := NewCollection("acme/api", base, base.Add(time.Hour), nil)
	require.NoError(t, err)
	got, err := Combine(single)
	require.NoError(t, err)
	assert.Equal(t, single, got)
}
