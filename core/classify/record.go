package classify

import (
	"slices"
	"strings"

	"github.com/huangsam/commitpulse/schema"
)

// UnknownAuthor is substituted when a commit arrives without an author.
const UnknownAuthor = "Unknown"

// Record builds an immutable CommitRecord from a raw commit seen on branch.
// Totals are recomputed from the file list and the timestamp is normalized to UTC.
func (c *Classifier) Record(raw schema.RawCommit, branch string) schema.CommitRecord {
	files := make([]schema.FileChange, len(raw.Files))
	names := make([]string, len(raw.Files))
	var additions, deletions int
	for i, f := range raw.Files {
		if f.Changes == 0 {
			f.Changes = f.Additions + f.Deletions
		}
		if f.Status == "" {
			f.Status = schema.FileModified
		}
		files[i] = f
		names[i] = f.Filename
		additions += f.Additions
		deletions += f.Deletions
	}

	author := normalizePerson(raw.Author, nil)
	committer := normalizePerson(raw.Committer, &author)

	return schema.CommitRecord{
		SHA:          raw.SHA,
		Message:      raw.Message,
		Author:       author,
		Committer:    committer,
		Timestamp:    raw.Timestamp.UTC(),
		URL:          raw.URL,
		Repository:   raw.Repository,
		Branch:       branch,
		Files:        files,
		Additions:    additions,
		Deletions:    deletions,
		TotalChanges: additions + deletions,
		Category:     c.Classify(raw.Message, names),
		Breaking:     c.IsBreaking(raw.Message),
		Security:     c.AffectsSecurity(raw.Message, names),
		Performance:  c.AffectsPerformance(raw.Message, names),
		PullRequest:  raw.PullRequest,
		ClosedIssues: slices.Clone(raw.ClosedIssues),
	}
}

// Records classifies a whole branch fetch.
func (c *Classifier) Records(raws []schema.RawCommit, branch string) []schema.CommitRecord {
	out := make([]schema.CommitRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, c.Record(raw, branch))
	}
	return out
}

// normalizePerson fills in defaults for a missing or partial person.
// A missing committer falls back to the author.
func normalizePerson(p *schema.Person, fallback *schema.Person) schema.Person {
	if p == nil {
		if fallback != nil {
			return *fallback
		}
		return schema.Person{Name: UnknownAuthor}
	}
	out := *p
	if strings.TrimSpace(out.Name) == "" {
		out.Name = UnknownAuthor
	}
	return out
}
