package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// WriteCheckResult outputs the policy check verdict, dispatching based on the output format configured.
func WriteCheckResult(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForCheck(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCheck(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for check results; use text, csv or json")
	default:
		// Default to human-readable gate lines
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(result, cfg, fmtFloat, duration, w)
		}, "Wrote check results")
	}
	return nil
}

// writeCheckText renders one ✓/✗ line per gate and a final verdict.
func writeCheckText(result schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Check Results\n=============\n"); err != nil {
		return err
	}

	passed := 0
	for _, item := range result.Items {
		mark := "✗"
		if item.Passed {
			mark = "✓"
			passed++
		}
		if cfg.UseColors {
			if item.Passed {
				mark = contract.PassColor.Sprint(mark)
			} else {
				mark = contract.FailColor.Sprint(mark)
			}
		}
		if _, err := fmt.Fprintf(writer, "%s %s (actual %s, threshold %s)\n",
			mark, item.Name, fmtFloat(item.Actual), fmtFloat(item.Threshold)); err != nil {
			return err
		}
	}

	verdict := "FAILED"
	if result.Passed {
		verdict = "PASSED"
	}
	_, err := fmt.Fprintf(writer, "\n%s: %d of %d checks passed in %v\n", verdict, passed, len(result.Items), duration)
	return err
}

// writeCSVResultsForCheck writes one row per evaluated gate.
func writeCSVResultsForCheck(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string) error {
	header := []string{
		"gate",
		"passed",
		"actual",
		"threshold",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, item := range result.Items {
			rec := []string{
				item.Name,
				strconv.FormatBool(item.Passed),
				fmtFloat(item.Actual),
				fmtFloat(item.Threshold),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForCheck writes the verdict with snake_case keys.
func writeJSONResultsForCheck(w io.Writer, result schema.CheckResult) error {
	type JSONCheckItem struct {
		Name      string  `json:"name"`
		Passed    bool    `json:"passed"`
		Actual    float64 `json:"actual"`
		Threshold float64 `json:"threshold"`
	}
	type JSONCheckResult struct {
		Passed bool            `json:"passed"`
		Items  []JSONCheckItem `json:"items"`
	}

	output := JSONCheckResult{Passed: result.Passed}
	for _, item := range result.Items {
		output.Items = append(output.Items, JSONCheckItem{
			Name:      item.Name,
			Passed:    item.Passed,
			Actual:    item.Actual,
			Threshold: item.Threshold,
		})
	}

	return writeJSON(w, output)
}
