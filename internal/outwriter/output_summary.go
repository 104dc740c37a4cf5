package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// seriesTitles are the display names for the rolling summary rows.
var seriesTitles = map[schema.SeriesKey]string{
	schema.InfoSeries:  "AI Info",
	schema.TermsSeries: "Terms",
	schema.QuizSeries:  "Quiz",
}

// WriteSummaryResults outputs the rolling summary of a dashboard, dispatching based on the output format configured.
func WriteSummaryResults(dash schema.Dashboard, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, dash.Summary)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, dash.Summary)
		}, "Wrote YAML summary"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummary(w, dash.Summary, fmtFloat)
		}, "Wrote CSV summary"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is only supported by the dashboard command")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if done := writeDashboardHeader(w, dash); done {
				return nil
			}
			return writeSummaryTable(w, dash.Summary, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryTable prints the trailing-window means with their achievement labels.
func writeSummaryTable(w io.Writer, summary schema.RollingSummary, cfg *contract.Config, fmtFloat func(float64) string) error {
	_, _ = fmt.Fprintf(w, "Rolling %d-day summary (%d samples)\n", summary.Window, summary.Samples)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Mean %", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, key := range schema.AllSeries {
		mean := summary.Means.Get(key)
		data = append(data, []string{seriesTitles[key], fmtFloat(mean), labelFor(cfg, mean)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVSummary writes one CSV row per series.
func writeCSVSummary(w io.Writer, summary schema.RollingSummary, fmtFloat func(float64) string) error {
	header := []string{"series", "mean", "label", "window", "samples"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, key := range schema.AllSeries {
			mean := summary.Means.Get(key)
			row := []string{
				string(key),
				fmtFloat(mean),
				contract.GetPlainLabel(mean),
				fmt.Sprintf("%d", summary.Window),
				fmt.Sprintf("%d", summary.Samples),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
