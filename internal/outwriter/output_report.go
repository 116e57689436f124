package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// reportTimeFormat renders the generated-at stamp in the text report.
const reportTimeFormat = "2006-01-02 15:04:05"

// WriteReport outputs the aggregate report, dispatching based on the output format configured.
func WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForReport(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the report; use 'okrpulse history export' for Parquet")
	default:
		// Default to human-readable sections
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(report, cfg, fmtFloat, duration, w)
		}, "Wrote report")
	}
	return nil
}

// writeReportText renders the full report as sectioned text with one user table.
func writeReportText(report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if err := writeReportHeader(report, writer); err != nil {
		return err
	}
	if err := writeReportWeekly(report, fmtFloat, writer); err != nil {
		return err
	}
	if err := writeReportUserTable(report, cfg, fmtFloat, writer); err != nil {
		return err
	}
	if err := writeReportAlerts(report, cfg, writer); err != nil {
		return err
	}
	if err := writeReportHealth(report, writer); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Report on %d users completed in %v\n", len(report.Users), duration)
	return err
}

// writeReportHeader renders the title, key metrics, top issues and highlights.
func writeReportHeader(report *schema.Report, w io.Writer) error {
	km := report.Summary.KeyMetrics
	if _, err := fmt.Fprintf(w, "📊 Organization OKR Report\n==========================\nGenerated: %s\n\n",
		report.GeneratedAt.Format(reportTimeFormat)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Key Metrics\n-----------\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Active users:    %d\n", km.TotalActiveUsers); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "OKR health:      %.1f%%\n", km.OKRHealthScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Checkin health:  %.1f%%\n", km.CheckinHealthScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall health:  %.1f%%\n", km.OverallHealthScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Critical issues: %d\n", km.CriticalIssues); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Moderate issues: %d\n\n", km.ModerateIssues); err != nil {
		return err
	}

	if err := writeBulletSection(w, "Top Issues", report.Summary.TopIssues, "none"); err != nil {
		return err
	}
	return writeBulletSection(w, "Highlights", report.Summary.Highlights, "none")
}

// writeBulletSection renders a titled bullet list, with a placeholder when empty.
func writeBulletSection(w io.Writer, title string, items []string, empty string) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, dashes(len(title))); err != nil {
		return err
	}
	if len(items) == 0 {
		if _, err := fmt.Fprintf(w, "- %s\n\n", empty); err != nil {
			return err
		}
		return nil
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "- %s\n", item); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeReportWeekly renders the weekly analysis block.
func writeReportWeekly(report *schema.Report, fmtFloat func(float64) string, w io.Writer) error {
	wa := report.WeeklyAnalysis
	if _, err := fmt.Fprintf(w, "Weekly Analysis\n---------------\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Users: %d (positive: %d, negative: %d)\n",
		wa.TotalUsers, wa.UsersPositiveShift, wa.UsersNegativeShift); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg shift: %s | Avg current value: %s | Avg KR count: %.1f\n",
		fmtFloat(wa.AvgShift), fmtFloat(wa.AvgCurrentValue), wa.AvgKRCount); err != nil {
		return err
	}
	d := wa.Distribution
	_, err := fmt.Fprintf(w, "Distribution: %d excellent, %d good, %d average, %d poor\n\n",
		d.Excellent, d.Good, d.Average, d.Poor)
	return err
}

// writeReportUserTable renders the per-user analysis table.
func writeReportUserTable(report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "User Analysis\n-------------\n"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "User", "Shift", "Current", "KRs", "Performance", "Checkins", "Risk"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, u := range report.Users {
		riskLabel := string(u.Risk.Level)
		if cfg.UseColors {
			riskLabel = contract.GetColorRiskLabel(u.Risk.Level)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(u.UserName, getMaxTableNameWidth(cfg)),
			fmtFloat(u.Performance.WeeklyShift),
			fmtFloat(u.Performance.CurrentValue),
			strconv.Itoa(u.Performance.KRCount),
			string(u.Performance.Level),
			strconv.Itoa(u.Checkins.PeriodCheckins),
			riskLabel,
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeReportAlerts renders the raised alerts grouped by severity.
func writeReportAlerts(report *schema.Report, cfg *contract.Config, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Alerts\n------\n"); err != nil {
		return err
	}
	if report.Alerts.Count() == 0 {
		_, err := fmt.Fprintf(w, "No alerts raised.\n\n")
		return err
	}

	groups := [][]schema.Alert{report.Alerts.Critical, report.Alerts.Moderate, report.Alerts.Low}
	for _, group := range groups {
		for _, a := range group {
			sevLabel := string(a.Severity)
			if cfg.UseColors {
				sevLabel = contract.GetColorSeverityLabel(a.Severity)
			}
			line := fmt.Sprintf("[%s] %s: %s", sevLabel, a.Type, a.User)
			if a.Detail != "" {
				line += fmt.Sprintf(" (%s)", a.Detail)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeReportHealth renders organization health, trends and recommendations.
func writeReportHealth(report *schema.Report, w io.Writer) error {
	h := report.Health
	if _, err := fmt.Fprintf(w, "Organization Health\n-------------------\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "OKR health:     %.1f%% (%s)\n", h.OKRHealthScore, h.Trends.OKRTrend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Checkin health: %.1f%% (%s)\n", h.CheckinHealthScore, h.Trends.CheckinTrend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall:        %.1f%% (%s, confidence: %s)\n",
		h.OverallHealthScore, h.Trends.OverallTrend, h.Trends.Confidence); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Recommendations:\n"); err != nil {
		return err
	}
	for _, rec := range h.Recommendations {
		if _, err := fmt.Fprintf(w, "- %s\n", rec); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeCSVResultsForReport writes the per-user analysis rows in CSV format.
func writeCSVResultsForReport(w io.Writer, report *schema.Report, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"user_id",
		"user_name",
		"weekly_shift",
		"current_value",
		"kr_count",
		"performance_level",
		"period_checkins",
		"checkin_rate",
		"risk_score",
		"risk_level",
		"total_alignment_pct",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, u := range report.Users {
			rec := []string{
				strconv.Itoa(i + 1),
				u.UserID,
				u.UserName,
				fmtFloat(u.Performance.WeeklyShift),
				fmtFloat(u.Performance.CurrentValue),
				strconv.Itoa(u.Performance.KRCount),
				string(u.Performance.Level),
				strconv.Itoa(u.Checkins.PeriodCheckins),
				fmtFloat(u.Checkins.CheckinRate),
				strconv.Itoa(u.Risk.Score),
				string(u.Risk.Level),
				fmtFloat(u.Alignment.TotalPct),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// dashes returns a divider sized to a section title.
func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
