package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
)

// classificationOutput is the JSON shape of a single classification.
type classificationOutput struct {
	Message string `json:"message"`
	schema.Classification
}

// WriteClassification outputs a single classification verdict.
func WriteClassification(message string, verdict schema.Classification, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeClassification(w, message, verdict, cfg)
	}, "Wrote classification")
}

func writeClassification(w io.Writer, message string, verdict schema.Classification, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, classificationOutput{Message: message, Classification: verdict})
	case schema.CSVOut:
		header := []string{"message", "commit_type", "is_breaking_change", "affects_security", "affects_performance"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return csvWriter.Write([]string{
				message,
				string(verdict.Category),
				strconv.FormatBool(verdict.Breaking),
				strconv.FormatBool(verdict.Security),
				strconv.FormatBool(verdict.Performance),
			})
		})
	default:
		data := [][]string{{
			string(verdict.Category),
			yesNo(verdict.Breaking),
			yesNo(verdict.Security),
			yesNo(verdict.Performance),
		}}
		return renderTable(w, []string{"Type", "Breaking", "Security", "Performance"}, data)
	}
}

// WriteRateLimit outputs the remaining request budget of a remote source.
func WriteRateLimit(status schema.RateLimitStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeRateLimit(w, status, cfg, time.Now())
	}, "Wrote rate limit status")
}

func writeRateLimit(w io.Writer, status schema.RateLimitStatus, cfg *contract.Config, now time.Time) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}
	reset := "unknown"
	if !status.Reset.IsZero() {
		reset = fmt.Sprintf("%s (%s)",
			status.Reset.Local().Format(contract.DateTimeFormat),
			humanize.RelTime(status.Reset, now, "ago", "from now"))
	}
	data := [][]string{{
		status.Source,
		humanize.Comma(int64(status.Remaining)),
		humanize.Comma(int64(status.Limit)),
		reset,
	}}
	return renderTable(w, []string{"Source", "Remaining", "Limit", "Reset"}, data)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
