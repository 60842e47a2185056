package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/commitpulse/schema"
)

// Separators used in the git log pretty format. Control characters never appear in
// names, emails or dates, and only the record separator is ever stripped from messages.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
	headerEnd = "\x1d"
)

// GitLogFormat is the --pretty format understood by ParseGitLog.
const GitLogFormat = "--pretty=format:%x1e%H%x1f%an%x1f%ae%x1f%aI%x1f%cn%x1f%ce%x1f%B%x1d"

var (
	pullRequestRe  = regexp.MustCompile(`\(#(\d+)\)`)
	closedIssuesRe = regexp.MustCompile(`(?i)\b(?:close[sd]?|fix(?:e[sd])?|resolve[sd]?)\s+#(\d+)`)
)

// ParseGitLog parses the output of `git log --numstat --summary` run with GitLogFormat.
// Malformed records are skipped.
func ParseGitLog(out []byte) []schema.RawCommit {
	var commits []schema.RawCommit
	for record := range strings.SplitSeq(string(out), recordSep) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		header, stats, ok := strings.Cut(record, headerEnd)
		if !ok {
			continue
		}
		commit, ok := parseCommitHeader(header)
		if !ok {
			continue
		}
		commit.Files = parseFileStats(stats)
		commits = append(commits, commit)
	}
	return commits
}

// parseCommitHeader extracts the commit identity and message from a header record.
func parseCommitHeader(header string) (schema.RawCommit, bool) {
	parts := strings.SplitN(header, fieldSep, 7) // sha|an|ae|aI|cn|ce|body
	if len(parts) != 7 || parts[0] == "" {
		return schema.RawCommit{}, false
	}
	date, err := time.Parse(time.RFC3339, parts[3])
	if err != nil {
		return schema.RawCommit{}, false
	}

	message := strings.TrimSpace(parts[6])
	commit := schema.RawCommit{
		SHA:          strings.TrimSpace(parts[0]),
		Message:      message,
		Timestamp:    date,
		PullRequest:  ParsePullRequest(message),
		ClosedIssues: ParseClosedIssues(message),
	}
	if parts[1] != "" || parts[2] != "" {
		commit.Author = &schema.Person{Name: parts[1], Email: parts[2]}
	}
	if parts[4] != "" || parts[5] != "" {
		commit.Committer = &schema.Person{Name: parts[4], Email: parts[5]}
	}
	return commit, true
}

// parseFileStats reads the numstat and summary lines that follow a header.
func parseFileStats(stats string) []schema.FileChange {
	files := []schema.FileChange{}
	index := make(map[string]int)
	for l := range strings.SplitSeq(stats, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		if strings.HasPrefix(l, " ") {
			applySummaryLine(strings.TrimSpace(l), files, index)
			continue
		}

		parts := strings.SplitN(l, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		add, del := parseChurnValue(parts[0]), parseChurnValue(parts[1])
		fc := schema.FileChange{
			Filename:  parts[2],
			Additions: add,
			Deletions: del,
			Changes:   add + del,
			Status:    schema.FileModified,
		}
		if strings.Contains(parts[2], " => ") {
			if _, newPath := parseRenamePath(parts[2]); newPath != "" {
				fc.Filename = newPath
				fc.Status = schema.FileRenamed
			}
		}
		index[fc.Filename] = len(files)
		files = append(files, fc)
	}
	return files
}

// applySummaryLine marks files reported as created or deleted by --summary.
func applySummaryLine(line string, files []schema.FileChange, index map[string]int) {
	var status schema.ChangeKind
	switch {
	case strings.HasPrefix(line, "create mode "):
		status = schema.FileAdded
	case strings.HasPrefix(line, "delete mode "):
		status = schema.FileRemoved
	default:
		return
	}
	// "create mode 100644 path/to/file"
	fields := strings.SplitN(line, " ", 4)
	if len(fields) != 4 {
		return
	}
	if i, ok := index[fields[3]]; ok {
		files[i].Status = status
	}
}

// parseChurnValue converts a churn string to int, handling "-" (binary files) as 0.
func parseChurnValue(s string) int {
	if s == "-" {
		return 0
	}
	if val, err := strconv.Atoi(s); err == nil && val >= 0 {
		return val
	}
	return 0
}

// parseRenamePath extracts old and new paths from a rename string.
// Both "old => new" and "prefix{old => new}suffix" are handled.
func parseRenamePath(path string) (string, string) {
	braceStart := strings.Index(path, "{")
	if braceStart == -1 {
		oldPath, newPath, ok := strings.Cut(path, " => ")
		if !ok {
			return "", ""
		}
		return oldPath, newPath
	}

	braceEnd := strings.Index(path, "}")
	if braceEnd == -1 || braceStart >= braceEnd {
		return "", ""
	}
	prefix, inner, suffix := path[:braceStart], path[braceStart+1:braceEnd], path[braceEnd+1:]
	oldPart, newPart, ok := strings.Cut(inner, " => ")
	if !ok {
		return "", ""
	}
	// "{ => sub}/x.go" leaves a doubled slash behind
	clean := func(p string) string { return strings.ReplaceAll(p, "//", "/") }
	return clean(prefix + oldPart + suffix), clean(prefix + newPart + suffix)
}

// ParsePullRequest returns the pull request number from a "(#123)" suffix, or 0.
func ParsePullRequest(message string) int {
	m := pullRequestRe.FindAllStringSubmatch(message, -1)
	if len(m) == 0 {
		return 0
	}
	n, err := strconv.Atoi(m[len(m)-1][1])
	if err != nil {
		return 0
	}
	return n
}

// ParseClosedIssues returns the issue numbers referenced by closes/fixes/resolves keywords.
func ParseClosedIssues(message string) []int {
	var issues []int
	seen := make(map[int]struct{})
	for _, m := range closedIssuesRe.FindAllStringSubmatch(message, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		issues = append(issues, n)
	}
	return issues
}

// gitLogArgs builds the arguments of the log command for one branch.
func gitLogArgs(branch string, start, end time.Time) []string {
	args := []string{"log", branch, "--numstat", "--summary", "--no-color", GitLogFormat}
	if !start.IsZero() {
		args = append(args, fmt.Sprintf("--since=%s", start.Format(DateTimeFormat)))
	}
	if !end.IsZero() {
		args = append(args, fmt.Sprintf("--until=%s", end.Format(DateTimeFormat)))
	}
	return append(args, "--")
}
