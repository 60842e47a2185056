// Package schema has models, constants and errors shared by all parts of commitpulse.
package schema

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ChangeKind describes what happened to a file in a commit.
type ChangeKind string

// All change kinds supported.
const (
	FileAdded    ChangeKind = "added"
	FileModified ChangeKind = "modified"
	FileRemoved  ChangeKind = "removed"
	FileRenamed  ChangeKind = "renamed"
)

// Person identifies a commit author or committer.
type Person struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// FileChange is a single file touched by a commit.
type FileChange struct {
	Filename  string     `json:"filename"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Changes   int        `json:"changes"`
	Status    ChangeKind `json:"status"`
	Patch     string     `json:"patch,omitempty"`
}

// Branch is a branch reported by a commit source.
type Branch struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// RawCommit is the shape supplied by a commit source, before classification.
type RawCommit struct {
	SHA          string       `json:"sha"`
	Message      string       `json:"message"`
	Author       *Person      `json:"author,omitempty"`
	Committer    *Person      `json:"committer,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
	URL          string       `json:"url,omitempty"`
	Repository   string       `json:"repository,omitempty"`
	Files        []FileChange `json:"files"`
	PullRequest  int          `json:"pull_request,omitempty"`
	ClosedIssues []int        `json:"closed_issues,omitempty"`
}

// CommitRecord is one classified commit. Classification fields are set once at construction.
type CommitRecord struct {
	SHA          string       `json:"sha"`
	Message      string       `json:"message"`
	Author       Person       `json:"author"`
	Committer    Person       `json:"committer"`
	Timestamp    time.Time    `json:"timestamp"`
	URL          string       `json:"url,omitempty"`
	Repository   string       `json:"repository,omitempty"`
	Branch       string       `json:"branch"`
	Files        []FileChange `json:"files_changed"`
	Additions    int          `json:"additions"`
	Deletions    int          `json:"deletions"`
	TotalChanges int          `json:"total_changes"`
	Category     Category     `json:"commit_type"`
	Breaking     bool         `json:"is_breaking_change"`
	Security     bool         `json:"affects_security"`
	Performance  bool         `json:"affects_performance"`
	PullRequest  int          `json:"pull_request,omitempty"`
	ClosedIssues []int        `json:"closed_issues,omitempty"`
}

// ShortSHA returns the abbreviated commit hash.
func (c CommitRecord) ShortSHA() string {
	if len(c.SHA) <= 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// FilesCount returns the number of files touched by the commit.
func (c CommitRecord) FilesCount() int {
	return len(c.Files)
}

// IsMajorChange reports whether the commit is large or breaking.
func (c CommitRecord) IsMajorChange() bool {
	return c.TotalChanges > 50 || c.Breaking
}

// FirstLine returns the first line of the message, truncated to maxRunes with an ellipsis.
func (c CommitRecord) FirstLine(maxRunes int) string {
	line, _, _ := strings.Cut(c.Message, "\n")
	line = strings.TrimSpace(line)
	if maxRunes <= 3 || utf8.RuneCountInString(line) <= maxRunes {
		return line
	}
	runes := []rune(line)
	return string(runes[:maxRunes-3]) + "..."
}
