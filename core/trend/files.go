package trend

import (
	"path"
	"sort"
	"strings"

	"github.com/huangsam/commitpulse/schema"
	"gonum.org/v1/gonum/stat"
)

// fileAcc accumulates one file across commits.
type fileAcc struct {
	name         string
	changes      int
	commits      int
	additions    int
	deletions    int
	contributors map[string]struct{}
}

func (acc *fileAcc) profile() schema.FileProfile {
	p := schema.FileProfile{
		Filename:     acc.name,
		TotalChanges: acc.changes,
		Commits:      acc.commits,
		Additions:    acc.additions,
		Deletions:    acc.deletions,
		Contributors: len(acc.contributors),
	}
	if acc.commits > 0 {
		p.Volatility = float64(acc.changes) / float64(acc.commits)
	}
	return p
}

// analyzeFiles builds per-file profiles with extension and directory rollups.
func analyzeFiles(commits []schema.CommitRecord, limits Limits) schema.FileAnalysis {
	byName := make(map[string]*fileAcc)
	for _, c := range commits {
		for _, f := range c.Files {
			acc, ok := byName[f.Filename]
			if !ok {
				acc = &fileAcc{name: f.Filename, contributors: make(map[string]struct{})}
				byName[f.Filename] = acc
			}
			acc.changes += f.Changes
			acc.commits++
			acc.additions += f.Additions
			acc.deletions += f.Deletions
			acc.contributors[c.Author.Email] = struct{}{}
		}
	}

	profiles := make([]schema.FileProfile, 0, len(byName))
	extensions := make(map[string]int)
	directories := make(map[string]int)
	changes := make([]float64, 0, len(byName))
	for _, acc := range byName {
		profiles = append(profiles, acc.profile())
		changes = append(changes, float64(acc.changes))
		if ext := fileExtension(acc.name); ext != "" {
			extensions[ext] += acc.changes
		}
		if strings.Contains(acc.name, "/") {
			directories[path.Dir(acc.name)] += acc.changes
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].TotalChanges != profiles[j].TotalChanges {
			return profiles[i].TotalChanges > profiles[j].TotalChanges
		}
		return profiles[i].Filename < profiles[j].Filename
	})

	out := schema.FileAnalysis{
		Top:         truncate(profiles, limits.Files),
		Extensions:  rankTotals(extensions, limits.Extensions),
		Directories: rankTotals(directories, limits.Directories),
		TotalFiles:  len(byName),
	}
	if len(changes) > 0 {
		out.MeanChangesPerFile = stat.Mean(changes, nil)
	}
	return out
}

// fileExtension returns the lowercase extension of the base name without the dot.
func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

func rankTotals(m map[string]int, limit int) []schema.NamedTotal {
	out := make([]schema.NamedTotal, 0, len(m))
	for name, n := range m {
		out = append(out, schema.NamedTotal{Name: name, Changes: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Changes != out[j].Changes {
			return out[i].Changes > out[j].Changes
		}
		return out[i].Name < out[j].Name
	})
	return truncate(out, limit)
}
