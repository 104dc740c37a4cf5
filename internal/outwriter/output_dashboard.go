package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// NoDataMessage is printed for a resolved dashboard whose date axis is empty.
const NoDataMessage = "no data for this selection"

// WriteDashboardResults outputs a dashboard, dispatching based on the output format configured.
func WriteDashboardResults(dash schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONDashboard(w, dash)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAMLDashboard(w, dash)
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVDashboard(w, dash, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquetDashboard(w, dash)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardTable(w, dash, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeDashboardTable writes the day series, the today cards and the rolling summary.
func writeDashboardTable(w io.Writer, dash schema.Dashboard, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if done := writeDashboardHeader(w, dash); done {
		return nil
	}

	// 1. Day series
	withScore := showQuizScore(cfg)
	headers := []string{"Date", "Info %", "Terms %", "Quiz %"}
	if withScore {
		headers = append(headers, "Quiz Score")
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range dash.Points {
		row := []string{
			p.Date,
			fmt.Sprintf("%d", p.InfoPercent),
			fmt.Sprintf("%d", p.TermPercent),
			fmt.Sprintf("%d", p.QuizPercent),
		}
		if withScore {
			row = append(row, fmtFloat(p.QuizScore))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 2. Today cards
	if dash.Today != nil {
		if err := writeTodayTable(w, *dash.Today, fmtFloat); err != nil {
			return err
		}
	}

	// 3. Rolling summary
	if err := writeSummaryTable(w, dash.Summary, cfg, fmtFloat); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Dashboard built in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return nil
}

// writeDashboardHeader prints the selection line. It reports true when there is
// nothing more to render for the dashboard.
func writeDashboardHeader(w io.Writer, dash schema.Dashboard) bool {
	session := contract.TruncateCell(dash.SessionID, maxSessionWidth)
	if dash.Pending {
		_, _ = fmt.Fprintf(w, "⏳ Waiting for stats for session %q (%s to %s)\n", session, dash.StartDate, dash.EndDate)
		return true
	}
	_, _ = fmt.Fprintf(w, "📈 Progress for session %q, %s to %s (%d days)\n", session, dash.StartDate, dash.EndDate, dash.TotalDays)
	if len(dash.Points) == 0 {
		_, _ = fmt.Fprintln(w, NoDataMessage)
		return true
	}
	return false
}

// writeTodayTable prints the per-activity cards sourced from the last day of the series.
func writeTodayTable(w io.Writer, today schema.TodaySnapshot, fmtFloat func(float64) string) error {
	_, _ = fmt.Fprintf(w, "Today (%s)\n", today.Date)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Activity", "Done", "Available", "Percent"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"AI Info", fmt.Sprintf("%d", today.InfoCount), fmt.Sprintf("%d", today.InfoAvailable), fmt.Sprintf("%d%%", today.InfoPercent)},
		{"Terms", fmt.Sprintf("%d", today.TermCount), fmt.Sprintf("%d", today.TermsAvailable), fmt.Sprintf("%d%%", today.TermPercent)},
		{"Quiz", fmt.Sprintf("%d", today.QuizCorrect), fmt.Sprintf("%d", today.QuizTotal), fmt.Sprintf("%d%%", today.QuizPercent)},
		{"Quiz Score", fmtFloat(today.QuizScore), "", ""},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeJSONDashboard marshals the full dashboard to JSON and writes it.
func writeJSONDashboard(w io.Writer, dash schema.Dashboard) error {
	return writeJSON(w, dash)
}

// writeYAMLDashboard marshals the full dashboard to YAML and writes it.
func writeYAMLDashboard(w io.Writer, dash schema.Dashboard) error {
	return writeYAML(w, dash)
}

// writeCSVDashboard writes the day series as CSV rows.
func writeCSVDashboard(w io.Writer, dash schema.Dashboard, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"date", "ai_percent", "terms_percent", "quiz_percent", "quiz_score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range dash.Points {
			row := []string{
				p.Date,
				fmt.Sprintf(intFmt, p.InfoPercent),
				fmt.Sprintf(intFmt, p.TermPercent),
				fmt.Sprintf(intFmt, p.QuizPercent),
				fmtFloat(p.QuizScore),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
