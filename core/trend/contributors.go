package trend

import (
	"sort"
	"strings"
	"time"

	"github.com/huangsam/commitpulse/core/classify"
	"github.com/huangsam/commitpulse/schema"
)

// contributorAcc accumulates one author, keyed by email.
type contributorAcc struct {
	email     string
	name      string
	commits   int
	additions int
	deletions int
	files     map[string]struct{}
	types     map[schema.Category]int
	typeOrder []schema.Category
	first     time.Time
	last      time.Time
}

func (acc *contributorAcc) add(c schema.CommitRecord) {
	acc.commits++
	acc.additions += c.Additions
	acc.deletions += c.Deletions
	for _, f := range c.Files {
		acc.files[f.Filename] = struct{}{}
	}
	if _, ok := acc.types[c.Category]; !ok {
		acc.typeOrder = append(acc.typeOrder, c.Category)
	}
	acc.types[c.Category]++
	if acc.first.IsZero() || c.Timestamp.Before(acc.first) {
		acc.first = c.Timestamp
	}
	if c.Timestamp.After(acc.last) {
		acc.last = c.Timestamp
	}
}

// dominantType returns the most frequent category; ties go to the first one seen.
func (acc *contributorAcc) dominantType() schema.Category {
	var best schema.Category
	bestCount := 0
	for _, cat := range acc.typeOrder {
		if n := acc.types[cat]; n > bestCount {
			best, bestCount = cat, n
		}
	}
	return best
}

func (acc *contributorAcc) profile() schema.ContributorProfile {
	return schema.ContributorProfile{
		Email:           acc.email,
		Name:            acc.name,
		Commits:         acc.commits,
		Additions:       acc.additions,
		Deletions:       acc.deletions,
		FilesTouched:    len(acc.files),
		DominantType:    acc.dominantType(),
		ActiveSpanHours: spanHours(acc.first, acc.last),
	}
}

// analyzeContributors groups commits by author email. Commits must be in ascending time order.
func analyzeContributors(commits []schema.CommitRecord, limit int) schema.ContributorAnalysis {
	byEmail := make(map[string]*contributorAcc)
	var order []*contributorAcc

	for _, c := range commits {
		acc, ok := byEmail[c.Author.Email]
		if !ok {
			acc = &contributorAcc{
				email: c.Author.Email,
				name:  displayName(c.Author),
				files: make(map[string]struct{}),
				types: make(map[schema.Category]int),
			}
			byEmail[c.Author.Email] = acc
			order = append(order, acc)
		}
		acc.add(c)
	}

	profiles := make([]schema.ContributorProfile, 0, len(order))
	for _, acc := range order {
		profiles = append(profiles, acc.profile())
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Commits > profiles[j].Commits
	})

	out := schema.ContributorAnalysis{
		TotalContributors: len(order),
		Top:               truncate(profiles, limit),
	}
	if len(commits) > 0 {
		out.CollaborationScore = float64(len(order)) / float64(len(commits))
	}
	return out
}

// displayName uses the author's name, or the local part of the email when the name is unknown.
func displayName(p schema.Person) string {
	if p.Name != "" && p.Name != classify.UnknownAuthor {
		return p.Name
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	if p.Name != "" {
		return p.Name
	}
	return classify.UnknownAuthor
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
