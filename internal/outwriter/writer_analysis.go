package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/huangsam/commitpulse/core/trend"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// analysisCSVHeader lists the columns of the commit level CSV export.
var analysisCSVHeader = []string{
	"sha",
	"repository",
	"branch",
	"author",
	"email",
	"timestamp",
	"commit_type",
	"is_breaking_change",
	"affects_security",
	"affects_performance",
	"additions",
	"deletions",
	"total_changes",
	"files_changed",
	"impact_score",
	"pull_request",
	"message",
}

// writeCSVResultsForAnalysis writes one row per commit, newest first.
func writeCSVResultsForAnalysis(w io.Writer, result schema.AnalysisResult, fmtFloat func(float64) string) error {
	analyzer := trend.New()
	return writeCSVWithHeader(w, analysisCSVHeader, func(csvWriter *csv.Writer) error {
		for _, c := range result.Collection.Commits {
			pr := ""
			if c.PullRequest > 0 {
				pr = strconv.Itoa(c.PullRequest)
			}
			row := []string{
				c.SHA,
				c.Repository,
				c.Branch,
				c.Author.Name,
				c.Author.Email,
				c.Timestamp.UTC().Format(contract.DateTimeFormat),
				string(c.Category),
				strconv.FormatBool(c.Breaking),
				strconv.FormatBool(c.Security),
				strconv.FormatBool(c.Performance),
				strconv.Itoa(c.Additions),
				strconv.Itoa(c.Deletions),
				strconv.Itoa(c.TotalChanges),
				strconv.Itoa(c.FilesCount()),
				fmtFloat(analyzer.Score(c)),
				pr,
				c.FirstLine(0),
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeAnalysisText renders the human readable report: a summary, the insights and
// one table per trend section.
func writeAnalysisText(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, fmtInt func(int) string, duration time.Duration) error {
	coll := result.Collection
	report := result.Trends
	bold := color.New(color.Bold)

	fmt.Fprintln(w, bold.Sprint(sectionTitle(cfg, "📊", "Summary")))
	fmt.Fprintf(w, "Repository: %s\n", coll.Repository)
	fmt.Fprintf(w, "Window: %s → %s (%s)\n",
		coll.Start.UTC().Format(contract.DateTimeFormat),
		coll.End.UTC().Format(contract.DateTimeFormat),
		strings.TrimSpace(humanize.RelTime(coll.Start, coll.End, "", "")))
	if coll.BranchesTotal > 0 {
		fmt.Fprintf(w, "Branches: %d scanned of %d", len(coll.BranchesScanned), coll.BranchesTotal)
		if len(coll.BranchesFailed) > 0 {
			fmt.Fprintf(w, " (%d failed: %s)", len(coll.BranchesFailed), strings.Join(coll.BranchesFailed, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Commits: %s  Contributors: %s  Files: %s  Changes: +%s/-%s\n",
		humanize.Comma(int64(coll.Summary.TotalCommits)),
		humanize.Comma(int64(coll.Summary.UniqueContributors)),
		humanize.Comma(int64(coll.Summary.TotalFilesChanged)),
		humanize.Comma(int64(coll.Summary.TotalAdditions)),
		humanize.Comma(int64(coll.Summary.TotalDeletions)))

	if report.IsEmpty() {
		fmt.Fprintln(w, report.Error)
	} else {
		fmt.Fprintf(w, "Velocity: %s commits/hour  Phase: %s  Risk: %s\n",
			fmtFloat(report.Timeline.Velocity),
			report.Types.Phase,
			riskLabel(cfg, report.Impact.RiskLevel))
	}

	if len(result.Insights) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold.Sprint(sectionTitle(cfg, "💡", "Insights")))
		for _, line := range result.Insights {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	if report.IsEmpty() {
		fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
		return nil
	}

	sections := []struct {
		title   string
		emoji   string
		headers []string
		rows    [][]string
	}{
		{"Commit Types", "🏷️", []string{"Type", "Commits", "Ratio"}, typeRows(report, fmtFloat, fmtInt)},
		{"Top Contributors", "👥", []string{"Author", "Commits", "Added", "Deleted", "Files", "Dominant"}, contributorRows(report, fmtInt)},
		{"Most Changed Files", "📁", []string{"File", "Changes", "Commits", "Authors", "Volatility"}, fileRows(report, cfg, fmtFloat, fmtInt)},
		{"Notable Commits", "⭐", []string{"SHA", "Message", "Type", "Score", "Impact"}, notableRows(report, cfg, fmtFloat)},
	}
	for _, s := range sections {
		if len(s.rows) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold.Sprint(sectionTitle(cfg, s.emoji, s.title)))
		if err := renderTable(w, s.headers, s.rows); err != nil {
			return err
		}
	}

	if len(report.Topics) > 0 {
		fmt.Fprintf(w, "\nTopics: %s\n", strings.Join(report.Topics, ", "))
	}
	fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}

// renderTable prints a right aligned table.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func sectionTitle(cfg *contract.Config, emoji, title string) string {
	if cfg.UseEmojis {
		return emoji + " " + title
	}
	return title
}

func riskLabel(cfg *contract.Config, level schema.RiskLevel) string {
	if cfg.UseColors {
		return contract.GetColorRiskLabel(level)
	}
	return contract.GetRiskLabel(level)
}

func impactLabel(cfg *contract.Config, tier schema.ImpactTier) string {
	if cfg.UseColors {
		return contract.GetColorImpactLabel(tier)
	}
	return contract.GetImpactLabel(tier)
}

// typeRows lists the categories with at least one commit, in precedence order.
func typeRows(report schema.TrendReport, fmtFloat func(float64) string, fmtInt func(int) string) [][]string {
	var rows [][]string
	for _, c := range schema.AllCategories {
		n := report.Types.Counts[c]
		if n == 0 {
			continue
		}
		rows = append(rows, []string{
			string(c),
			fmtInt(n),
			fmtFloat(report.Types.Ratios[c]*100) + "%",
		})
	}
	return rows
}

func contributorRows(report schema.TrendReport, fmtInt func(int) string) [][]string {
	rows := make([][]string, 0, len(report.Contributors.Top))
	for _, p := range report.Contributors.Top {
		rows = append(rows, []string{
			p.Name,
			fmtInt(p.Commits),
			"+" + humanize.Comma(int64(p.Additions)),
			"-" + humanize.Comma(int64(p.Deletions)),
			fmtInt(p.FilesTouched),
			string(p.DominantType),
		})
	}
	return rows
}

func fileRows(report schema.TrendReport, cfg *contract.Config, fmtFloat func(float64) string, fmtInt func(int) string) [][]string {
	maxWidth := getMaxTableTextWidth(cfg, 40)
	rows := make([][]string, 0, len(report.Files.Top))
	for _, f := range report.Files.Top {
		rows = append(rows, []string{
			contract.TruncatePath(f.Filename, maxWidth),
			fmtInt(f.TotalChanges),
			fmtInt(f.Commits),
			fmtInt(f.Contributors),
			fmtFloat(f.Volatility),
		})
	}
	return rows
}

func notableRows(report schema.TrendReport, cfg *contract.Config, fmtFloat func(float64) string) [][]string {
	maxWidth := getMaxTableTextWidth(cfg, 45)
	rows := make([][]string, 0, len(report.Impact.Notable))
	for _, n := range report.Impact.Notable {
		msg := schema.CommitRecord{Message: n.Message}.FirstLine(maxWidth)
		rows = append(rows, []string{
			n.ShortSHA,
			msg,
			string(n.Category),
			fmtFloat(n.Score),
			impactLabel(cfg, n.Impact),
		})
	}
	return rows
}
