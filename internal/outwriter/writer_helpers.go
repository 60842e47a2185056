package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitpulse/internal/contract"
)

// writeWithFile runs write against outputFile, or stdout when no file is set.
// The success note goes to stderr so piped stdout stays clean.
func writeWithFile(outputFile string, write func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	toStdout := file == os.Stdout
	if !toStdout {
		defer func() { _ = file.Close() }()
	}

	if err := write(file); err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(successMsg), err)
	}

	if !toStdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header followed by whatever rows writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters returns the number formatters shared by the text and CSV writers.
// Integers get thousands separators since churn counts run large.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtInt func(int) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtInt = func(v int) string {
		return humanize.Comma(int64(v))
	}
	return fmtFloat, fmtInt
}
