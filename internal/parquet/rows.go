package parquet

import (
	"fmt"
	"os"

	"github.com/okrpulse/okrpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// ShiftRow represents one reconciled shift result for Parquet export.
// This struct maps the rows the shifts command prints.
type ShiftRow struct {
	// UserID is the platform identifier of the user
	UserID string `parquet:"user_id,snappy"`

	// UserName is the display name of the user
	UserName string `parquet:"user_name,snappy"`

	// Period is the reporting window the shift was computed over
	Period string `parquet:"period,snappy"`

	// CurrentValue is the reconciled completion value at the reference instant
	CurrentValue float64 `parquet:"current_value,snappy"`

	// ReferenceValue is the raw completion value at the comparison instant
	ReferenceValue float64 `parquet:"reference_value,snappy"`

	// AdjustedReference is the reference after reconciliation rules applied
	AdjustedReference float64 `parquet:"adjusted_reference,snappy"`

	// RawShift is the mean per-KR delta before reconciliation
	RawShift float64 `parquet:"raw_shift,snappy"`

	// AdjustedShift is the reconciled shift reported to users
	AdjustedShift float64 `parquet:"adjusted_shift,snappy"`

	// LegacyShift is current minus raw reference, kept for comparison
	LegacyShift float64 `parquet:"legacy_shift,snappy"`

	// ReferenceAdjusted marks that the reference was corrected during reconciliation
	ReferenceAdjusted bool `parquet:"reference_adjusted,snappy"`

	// ShiftAdjusted marks that the shift was corrected during reconciliation
	ShiftAdjusted bool `parquet:"shift_adjusted,snappy"`

	// GoalCount is the number of distinct goals contributing to the figures
	GoalCount int32 `parquet:"goal_count,snappy"`

	// KRCount is the number of distinct (goal, KR) pairs contributing to the figures
	KRCount int32 `parquet:"kr_count,snappy"`
}

// ScoreRow represents one composite user score for Parquet export.
// The component map is flattened to one column per component.
type ScoreRow struct {
	// UserID is the platform identifier of the user
	UserID string `parquet:"user_id,snappy"`

	// UserName is the display name of the user
	UserName string `parquet:"user_name,snappy"`

	// Score is the composite engagement score
	Score float64 `parquet:"score,snappy"`

	// Base is the component every user starts with
	Base float64 `parquet:"base,snappy"`

	// Cadence is the month-end checkin cadence bonus
	Cadence float64 `parquet:"cadence,snappy"`

	// Ownership is the goal ownership bonus
	Ownership float64 `parquet:"ownership,snappy"`

	// Movement is the monthly shift threshold bonus
	Movement float64 `parquet:"movement,snappy"`
}

// WriteShiftRowsParquet writes a slice of ShiftRow structs to a Parquet file.
func WriteShiftRowsParquet(data []ShiftRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteScoreRowsParquet writes a slice of ScoreRow structs to a Parquet file.
func WriteScoreRowsParquet(data []ScoreRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes any row slice to a Parquet file using struct schema inference.
func writeRows[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the row struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertShiftResults converts schema.ShiftResult to ShiftRow for Parquet export.
func ConvertShiftResults(results []schema.ShiftResult) []ShiftRow {
	rows := make([]ShiftRow, len(results))
	for i, r := range results {
		rows[i] = ShiftRow{
			UserID:            r.UserID,
			UserName:          r.UserName,
			Period:            string(r.Period),
			CurrentValue:      r.CurrentValue,
			ReferenceValue:    r.ReferenceValue,
			AdjustedReference: r.AdjustedReference,
			RawShift:          r.RawShift,
			AdjustedShift:     r.AdjustedShift,
			LegacyShift:       r.LegacyShift,
			ReferenceAdjusted: r.ReferenceAdjusted,
			ShiftAdjusted:     r.ShiftAdjusted,
			GoalCount:         int32(r.GoalCount),
			KRCount:           int32(r.KRCount),
		}
	}
	return rows
}

// ConvertUserScores converts schema.UserScore to ScoreRow for Parquet export.
func ConvertUserScores(scores []schema.UserScore) []ScoreRow {
	rows := make([]ScoreRow, len(scores))
	for i, s := range scores {
		rows[i] = ScoreRow{
			UserID:    s.UserID,
			UserName:  s.UserName,
			Score:     s.Score,
			Base:      s.Components[schema.ScoreBase],
			Cadence:   s.Components[schema.ScoreCadence],
			Ownership: s.Components[schema.ScoreOwnership],
			Movement:  s.Components[schema.ScoreMovement],
		}
	}
	return rows
}
