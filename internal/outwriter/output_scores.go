package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/parquet"
	"github.com/okrpulse/okrpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteUserScores outputs the composite scores, dispatching based on the output format configured.
func WriteUserScores(scores []schema.UserScore, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForScores(w, scores)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForScores(w, scores, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteScoreRowsParquet(parquet.ConvertUserScores(scores), path)
		})
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(scores, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable generates and writes the human-readable table.
func writeScoreTable(scores []schema.UserScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers, one column per score component
	headers := []string{"Rank", "User", "Score", "Base", "Cadence", "Ownership", "Movement"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, s := range scores {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncateName(s.UserName, getMaxTableNameWidth(cfg)), // User
			fmtFloat(s.Score),                                // Composite score
			fmtFloat(s.Components[schema.ScoreBase]),         // Base
			fmtFloat(s.Components[schema.ScoreCadence]),      // Cadence bonus
			fmtFloat(s.Components[schema.ScoreOwnership]),    // Ownership bonus
			fmtFloat(s.Components[schema.ScoreMovement]),     // Movement bonus
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
	numUsers := len(scores)
	total := 0.0
	for _, s := range scores {
		total += s.Score
	}
	avg := 0.0
	if numUsers > 0 {
		avg = total / float64(numUsers)
	}
	if _, err := fmt.Fprintf(writer, "Showing %d users (avg score: %.*f)\n", numUsers, cfg.Precision, avg); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Score analysis completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForScores writes the composite scores in CSV format.
func writeCSVResultsForScores(w io.Writer, scores []schema.UserScore, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"user_id",
		"user_name",
		"score",
		"base",
		"cadence",
		"ownership",
		"movement",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range scores {
			rec := []string{
				strconv.Itoa(i + 1), // Rank
				s.UserID,            // User ID
				s.UserName,          // User Name
				fmtFloat(s.Score),   // Composite score
				fmtFloat(s.Components[schema.ScoreBase]),
				fmtFloat(s.Components[schema.ScoreCadence]),
				fmtFloat(s.Components[schema.ScoreOwnership]),
				fmtFloat(s.Components[schema.ScoreMovement]),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForScores writes the composite scores in JSON format.
func writeJSONResultsForScores(w io.Writer, scores []schema.UserScore) error {
	// 1. Prepare the data structure for JSON with rank added
	type JSONUserScore struct {
		Rank int `json:"rank"`
		schema.UserScore
	}

	output := make([]JSONUserScore, len(scores))
	for i, s := range scores {
		output[i] = JSONUserScore{
			Rank:      i + 1,
			UserScore: s,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
