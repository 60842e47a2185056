// Package parquet provides data structures and functions for exporting commit
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/commitpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// CommitRow is one classified commit of a collection.
type CommitRow struct {
	// SHA is the full commit hash
	SHA string `parquet:"sha,snappy"`

	Repository string `parquet:"repository,snappy"`

	// Branch is the primary branch label chosen during deduplication
	Branch string `parquet:"branch,snappy"`

	AuthorName  string `parquet:"author_name,snappy"`
	AuthorEmail string `parquet:"author_email,snappy"`

	// Timestamp is stored as TIMESTAMP with nanosecond precision, in UTC
	Timestamp time.Time `parquet:"timestamp,snappy"`

	Category    string `parquet:"commit_type,snappy"`
	Breaking    bool   `parquet:"is_breaking_change"`
	Security    bool   `parquet:"affects_security"`
	Performance bool   `parquet:"affects_performance"`

	Additions    int32 `parquet:"additions,snappy"`
	Deletions    int32 `parquet:"deletions,snappy"`
	TotalChanges int32 `parquet:"total_changes,snappy"`
	FilesChanged int32 `parquet:"files_changed,snappy"`

	// PullRequest is the referenced pull request number (nullable)
	PullRequest *int32 `parquet:"pull_request,optional,snappy"`

	// Message is the first line of the commit message
	Message string `parquet:"message,snappy"`
}

// FileChangeRow is one file touched by one commit.
type FileChangeRow struct {
	SHA        string `parquet:"sha,snappy"`
	Repository string `parquet:"repository,snappy"`
	Filename   string `parquet:"filename,snappy"`
	Status     string `parquet:"status,snappy"`
	Additions  int32  `parquet:"additions,snappy"`
	Deletions  int32  `parquet:"deletions,snappy"`
	Changes    int32  `parquet:"changes,snappy"`
}

// CommitRows flattens commits into parquet rows.
func CommitRows(commits []schema.CommitRecord) []CommitRow {
	rows := make([]CommitRow, 0, len(commits))
	for _, c := range commits {
		row := CommitRow{
			SHA:          c.SHA,
			Repository:   c.Repository,
			Branch:       c.Branch,
			AuthorName:   c.Author.Name,
			AuthorEmail:  c.Author.Email,
			Timestamp:    c.Timestamp.UTC(),
			Category:     string(c.Category),
			Breaking:     c.Breaking,
			Security:     c.Security,
			Performance:  c.Performance,
			Additions:    int32(c.Additions),
			Deletions:    int32(c.Deletions),
			TotalChanges: int32(c.TotalChanges),
			FilesChanged: int32(c.FilesCount()),
			Message:      c.FirstLine(0),
		}
		if c.PullRequest > 0 {
			pr := int32(c.PullRequest)
			row.PullRequest = &pr
		}
		rows = append(rows, row)
	}
	return rows
}

// FileChangeRows flattens the file changes of every commit into parquet rows.
func FileChangeRows(commits []schema.CommitRecord) []FileChangeRow {
	var rows []FileChangeRow
	for _, c := range commits {
		for _, f := range c.Files {
			rows = append(rows, FileChangeRow{
				SHA:        c.SHA,
				Repository: c.Repository,
				Filename:   f.Filename,
				Status:     string(f.Status),
				Additions:  int32(f.Additions),
				Deletions:  int32(f.Deletions),
				Changes:    int32(f.Changes),
			})
		}
	}
	return rows
}

// WriteCommitsParquet writes commit rows to a Parquet file.
func WriteCommitsParquet(data []CommitRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileChangesParquet writes file change rows to a Parquet file.
func WriteFileChangesParquet(data []FileChangeRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
