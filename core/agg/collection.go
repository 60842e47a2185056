package agg

import (
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/commitpulse/schema"
)

const (
	topContributorsLimit = 5
	mostChangedLimit     = 10
)

// NewCollection builds a CommitCollection and computes its summary.
// Commits are re-sorted newest first. Duplicate shas and negative counts are rejected.
func NewCollection(repo string, start, end time.Time, commits []schema.CommitRecord) (schema.CommitCollection, error) {
	if err := checkCommits(commits); err != nil {
		return schema.CommitCollection{}, err
	}

	sorted := make([]schema.CommitRecord, len(commits))
	copy(sorted, commits)
	SortNewestFirst(sorted)

	start, end = start.UTC(), end.UTC()
	return schema.CommitCollection{
		Repository: repo,
		Start:      start,
		End:        end,
		Commits:    sorted,
		Summary:    Summarize(sorted, start, end),
	}, nil
}

// checkCommits verifies the invariants a collection relies on.
func checkCommits(commits []schema.CommitRecord) error {
	seen := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		if _, ok := seen[c.SHA]; ok {
			return fmt.Errorf("%w: duplicate sha %s", schema.ErrInvariant, c.SHA)
		}
		seen[c.SHA] = struct{}{}
		if c.Additions < 0 || c.Deletions < 0 || c.TotalChanges < 0 {
			return fmt.Errorf("%w: negative change counts in %s", schema.ErrInvariant, c.ShortSHA())
		}
		for _, f := range c.Files {
			if f.Additions < 0 || f.Deletions < 0 || f.Changes < 0 {
				return fmt.Errorf("%w: negative change counts for %s in %s", schema.ErrInvariant, f.Filename, c.ShortSHA())
			}
		}
	}
	return nil
}

// fileTotals accumulates one file while summarizing.
type fileTotals struct {
	changes int
	commits int
}

// Summarize computes collection statistics. It is pure and returns equal
// results for equal inputs.
func Summarize(commits []schema.CommitRecord, start, end time.Time) schema.CollectionSummary {
	summary := schema.CollectionSummary{
		TotalCommits: len(commits),
		CommitTypes:  make(map[schema.Category]int),
	}

	contributors := make(map[string]*schema.ContributorSummary)
	files := make(map[string]*fileTotals)

	for _, c := range commits {
		summary.CommitTypes[c.Category]++
		summary.TotalAdditions += c.Additions
		summary.TotalDeletions += c.Deletions
		if c.Breaking {
			summary.BreakingChanges++
		}
		if c.Security {
			summary.SecurityUpdates++
		}

		key := contributorKey(c.Author)
		acc, ok := contributors[key]
		if !ok {
			acc = &schema.ContributorSummary{Key: key, Name: c.Author.Name}
			contributors[key] = acc
		}
		acc.Commits++
		acc.Additions += c.Additions
		acc.Deletions += c.Deletions
		if acc.AvatarURL == "" {
			acc.AvatarURL = c.Author.AvatarURL
		}

		for _, f := range c.Files {
			ft, ok := files[f.Filename]
			if !ok {
				ft = &fileTotals{}
				files[f.Filename] = ft
			}
			ft.changes += f.Changes
			ft.commits++
		}
	}

	summary.UniqueContributors = len(contributors)
	summary.TotalFilesChanged = len(files)
	summary.TopContributors = topContributors(contributors, topContributorsLimit)
	summary.MostChangedFiles = mostChangedFiles(files, mostChangedLimit)

	summary.TimePeriodHours = end.Sub(start).Hours()
	if summary.TimePeriodHours > 0 {
		summary.CommitsPerHour = float64(summary.TotalCommits) / summary.TimePeriodHours
	}
	return summary
}

// contributorKey prefers the platform username and falls back to the display name.
func contributorKey(p schema.Person) string {
	if p.Username != "" {
		return p.Username
	}
	return p.Name
}

func topContributors(m map[string]*schema.ContributorSummary, limit int) []schema.ContributorSummary {
	out := make([]schema.ContributorSummary, 0, len(m))
	for _, acc := range m {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func mostChangedFiles(m map[string]*fileTotals, limit int) []schema.FileSummary {
	out := make([]schema.FileSummary, 0, len(m))
	for name, ft := range m {
		out = append(out, schema.FileSummary{Filename: name, Changes: ft.changes, Commits: ft.commits})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Changes != out[j].Changes {
			return out[i].Changes > out[j].Changes
		}
		return out[i].Filename < out[j].Filename
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
