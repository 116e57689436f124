package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/okrpulse/okrpulse/schema"
)

// Color variables for console output.
var (
	HighRiskColor   = color.New(color.FgRed, color.Bold) // strong danger signal
	MediumRiskColor = color.New(color.FgYellow)          // standard caution, not bold
	LowRiskColor    = color.New(color.FgGreen)           // healthy / on track

	CriticalColor = color.New(color.FgRed, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	InfoColor     = color.New(color.FgCyan)

	PassColor = color.New(color.FgGreen)
	FailColor = color.New(color.FgRed, color.Bold)
)

// GetColorRiskLabel returns a colored risk label for console output (table).
// The plain string comes from the level itself so CSV and JSON stay uncolored.
func GetColorRiskLabel(level schema.RiskLevel) string {
	switch level {
	case schema.HighRisk:
		return HighRiskColor.Sprint(string(level))
	case schema.MediumRisk:
		return MediumRiskColor.Sprint(string(level))
	default:
		return LowRiskColor.Sprint(string(level))
	}
}

// GetColorSeverityLabel returns a colored severity label for console output.
func GetColorSeverityLabel(severity schema.AlertSeverity) string {
	switch severity {
	case schema.CriticalAlert:
		return CriticalColor.Sprint(string(severity))
	case schema.ModerateAlert:
		return ModerateColor.Sprint(string(severity))
	default:
		return InfoColor.Sprint(string(severity))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".okrpulse_history.db"
	}
	return filepath.Join(homeDir, ".okrpulse_history.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis
// suffix. Requires maxWidth > 3 so there is room for both content and "...".
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// Round2 rounds to two decimal places. Shift and score figures are stored
// rounded so JSON, CSV and DB rows agree bit-for-bit across writers.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, used for health percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
