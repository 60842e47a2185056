package trend

import (
	"sort"
	"strings"
	"unicode"

	"github.com/huangsam/commitpulse/schema"
)

const minTopicLength = 4

// extractTopics picks recurring words from commit messages, followed by the
// categories present in the window.
func extractTopics(commits []schema.CommitRecord, counts map[schema.Category]int, limit int) []string {
	words := make(map[string]int)
	for _, c := range commits {
		for _, w := range strings.Fields(strings.ToLower(c.Message)) {
			if len([]rune(w)) >= minTopicLength && isAlpha(w) {
				words[w]++
			}
		}
	}

	type wordCount struct {
		word  string
		count int
	}
	ranked := make([]wordCount, 0, len(words))
	for w, n := range words {
		ranked = append(ranked, wordCount{w, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	topics := []string{}
	seen := make(map[string]struct{})
	push := func(t string) {
		if _, ok := seen[t]; ok || len(topics) >= limit {
			return
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}

	for _, wc := range truncate(ranked, limit) {
		if wc.count > 1 {
			push(wc.word)
		}
	}
	for _, cat := range schema.AllCategories {
		if counts[cat] > 0 {
			push(string(cat))
		}
	}
	return topics
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
