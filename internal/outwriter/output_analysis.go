package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/internal/parquet"
	"github.com/huangsam/commitpulse/schema"
)

// WriteAnalysisResult outputs the analysis result, dispatching based on the output format configured.
func WriteAnalysisResult(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForAnalysis(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForAnalysis(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForAnalysis(result, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	case schema.HTMLOut:
		if err := printHTMLResultsForAnalysis(result, cfg); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(w, result, cfg, fmtFloat, fmtInt, duration)
		}, "Wrote analysis report"); err != nil {
			return fmt.Errorf("error writing analysis table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForAnalysis handles opening the file and calling the JSON writer.
func printJSONResultsForAnalysis(result schema.AnalysisResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON analysis results")
}

// printCSVResultsForAnalysis handles opening the file and calling the CSV writer.
func printCSVResultsForAnalysis(result schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForAnalysis(w, result, fmtFloat)
	}, "Wrote CSV analysis results")
}

// printHTMLResultsForAnalysis handles opening the file and rendering the chart page.
func printHTMLResultsForAnalysis(result schema.AnalysisResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeHTMLReport(w, result)
	}, "Wrote HTML analysis report")
}

// printParquetResultsForAnalysis writes commits to the output file and file changes
// next to it, suffixed with _files.
func printParquetResultsForAnalysis(result schema.AnalysisResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	commitsPath := cfg.OutputFile
	filesPath := filesParquetPath(commitsPath)

	if err := parquet.WriteCommitsParquet(parquet.CommitRows(result.Collection.Commits), commitsPath); err != nil {
		return err
	}
	if err := parquet.WriteFileChangesParquet(parquet.FileChangeRows(result.Collection.Commits), filesPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d commits to %s and file changes to %s\n",
		len(result.Collection.Commits), commitsPath, filesPath)
	return nil
}

// filesParquetPath derives the file change table path from the commit table path.
func filesParquetPath(commitsPath string) string {
	ext := filepath.Ext(commitsPath)
	if ext == "" {
		return commitsPath + "_files.parquet"
	}
	return strings.TrimSuffix(commitsPath, ext) + "_files" + ext
}
