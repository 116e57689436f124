package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/parquet"
	"github.com/okrpulse/okrpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteShiftResults outputs the reconciled shifts, dispatching based on the output format configured.
func WriteShiftResults(results []schema.ShiftResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForShifts(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForShifts(w, results, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteShiftRowsParquet(parquet.ConvertShiftResults(results), path)
		})
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeShiftTable(results, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeShiftTable generates and writes the human-readable table.
func writeShiftTable(results []schema.ShiftResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "User", "Period", "Current", "Reference", "Shift", "Flags", "Goals", "KRs"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var red, green, yellow func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}
	var data [][]string
	for i, r := range results {
		// Positive movement is the healthy direction here, so it renders green
		var shiftStr string
		switch {
		case r.AdjustedShift > 0:
			// Explicitly add + sign
			shiftStr = green(fmt.Sprintf("+%.*f ▲", cfg.Precision, r.AdjustedShift))
		case r.AdjustedShift < 0:
			// Keeps the - sign from the float
			shiftStr = red(fmt.Sprintf("%.*f ▼", cfg.Precision, r.AdjustedShift))
		default:
			// For 0.0 shifts, format simply without an indicator
			shiftStr = yellow(fmt.Sprintf("%.*f", cfg.Precision, 0.0))
		}

		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncateName(r.UserName, getMaxTableNameWidth(cfg)), // User
			string(r.Period),               // Period
			fmtFloat(r.CurrentValue),       // Current
			fmtFloat(r.AdjustedReference),  // Reference after reconciliation
			shiftStr,                       // Adjusted shift
			adjustmentFlags(r),             // Which rules fired
			fmt.Sprintf(intFmt, r.GoalCount),
			fmt.Sprintf(intFmt, r.KRCount),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	numUsers := len(results)
	positive := 0
	negative := 0
	adjusted := 0
	for _, r := range results {
		if r.AdjustedShift > 0 {
			positive++
		} else if r.AdjustedShift < 0 {
			negative++
		}
		if r.ReferenceAdjusted || r.ShiftAdjusted {
			adjusted++
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d users (positive: %d, negative: %d, reconciled: %d)\n", numUsers, positive, negative, adjusted); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Shift analysis completed in %v (period: %s)\n", duration, cfg.Period); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForShifts writes the reconciled shifts in CSV format.
func writeCSVResultsForShifts(w io.Writer, results []schema.ShiftResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"user_id",
		"user_name",
		"period",
		"current_value",
		"reference_value",
		"adjusted_reference",
		"raw_shift",
		"adjusted_shift",
		"legacy_shift",
		"reference_adjusted",
		"shift_adjusted",
		"goal_count",
		"kr_count",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range results {
			rec := []string{
				strconv.Itoa(i + 1),         // Rank
				r.UserID,                    // User ID
				r.UserName,                  // User Name
				string(r.Period),            // Period
				fmtFloat(r.CurrentValue),    // Current Value
				fmtFloat(r.ReferenceValue),  // Raw Reference
				fmtFloat(r.AdjustedReference),
				fmtFloat(r.RawShift),
				fmtFloat(r.AdjustedShift),
				fmtFloat(r.LegacyShift),
				strconv.FormatBool(r.ReferenceAdjusted),
				strconv.FormatBool(r.ShiftAdjusted),
				fmt.Sprintf(intFmt, r.GoalCount),
				fmt.Sprintf(intFmt, r.KRCount),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForShifts writes the reconciled shifts in JSON format.
func writeJSONResultsForShifts(w io.Writer, results []schema.ShiftResult) error {
	// 1. Prepare the data structure for JSON with rank and performance added
	type JSONShiftResult struct {
		Rank        int    `json:"rank"`
		Performance string `json:"performance"`
		schema.ShiftResult
	}

	output := make([]JSONShiftResult, len(results))
	for i, r := range results {
		output[i] = JSONShiftResult{
			Rank:        i + 1,
			Performance: string(schema.PerformanceLevelFor(r.AdjustedShift)),
			ShiftResult: r,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// adjustmentFlags summarizes which reconciliation rules fired for one row.
func adjustmentFlags(r schema.ShiftResult) string {
	switch {
	case r.ReferenceAdjusted && r.ShiftAdjusted:
		return "ref+shift"
	case r.ReferenceAdjusted:
		return "ref"
	case r.ShiftAdjusted:
		return "shift"
	default:
		return "-"
	}
}
