package contract

import (
	"fmt"
	"maps"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okrpulse/okrpulse/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2

	// DefaultMinHealth is the overall health score the check command requires.
	DefaultMinHealth = 60.0
	// DefaultMaxCritical is the critical alert count the check command tolerates.
	DefaultMaxCritical = 0
	// DefaultMaxHighRisk is the High-risk user count the check command tolerates.
	DefaultMaxHighRisk = 5
)

// Reporting thresholds shared by the risk and alert logic.
const (
	// MinPeriodCheckins is the checkin count below which a period counts as inactive.
	MinPeriodCheckins = 2
	// MonthlyCadenceMin is the checkin count a month must exceed for the cadence bonus.
	MonthlyCadenceMin = 3
	// DefaultQuarterWeeks is the per-week denominator used when a snapshot has no checkpoints.
	DefaultQuarterWeeks = 12
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a report run.
// This struct remains the "final, validated" config.
type Config struct {
	SnapshotPath string
	AsOf         time.Time // reference "now" the calendar anchors on
	Period       schema.Period
	ResultLimit  int
	Precision    int
	Output       schema.OutputMode
	OutputFile   string
	Width        int  // Terminal width override (0 = auto-detect)
	UseColors    bool // Enable colored labels in table output

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// DeptNames and TeamNames are the static id-to-name maps used for
	// personal-bucket grouping, loaded from the config file.
	DeptNames map[string]string
	TeamNames map[string]string

	// CheckThresholds are the gating limits for the check command.
	CheckThresholds schema.CheckThresholds
}

// DirectoryRawInput holds the static group maps from the YAML config file.
type DirectoryRawInput struct {
	Departments map[string]string `mapstructure:"departments"`
	Teams       map[string]string `mapstructure:"teams"`
}

// ThresholdsRawInput holds check threshold definitions from the YAML config file.
type ThresholdsRawInput struct {
	Health   *float64 `mapstructure:"health"`
	Critical *int     `mapstructure:"critical"`
	HighRisk *int     `mapstructure:"high-risk"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SnapshotPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	AsOf             string `mapstructure:"as-of"`
	Period           string `mapstructure:"period"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from checkCmd.Flags() ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Static group maps from config file ---
	Directory DirectoryRawInput `mapstructure:"directory"`

	// --- Check thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.DeptNames != nil {
		clone.DeptNames = make(map[string]string, len(c.DeptNames))
		maps.Copy(clone.DeptNames, c.DeptNames)
	}
	if c.TeamNames != nil {
		clone.TeamNames = make(map[string]string, len(c.TeamNames))
		maps.Copy(clone.TeamNames, c.TeamNames)
	}
	return &clone
}

// CloneWithAsOf creates a copy of the Config anchored at a different instant.
func (c *Config) CloneWithAsOf(asOf time.Time) *Config {
	clone := c.Clone()
	clone.AsOf = asOf
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAsOf(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processCheckThresholds(cfg, input); err != nil {
		return err
	}
	return resolveSnapshotPath(cfg, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Period Validation ---
	cfg.Period = schema.Period(strings.ToLower(input.Period))
	if _, ok := schema.ValidPeriods[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be weekly or monthly", input.Period)
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 4. Static group maps ---
	if input.Directory.Departments != nil {
		cfg.DeptNames = make(map[string]string, len(input.Directory.Departments))
		maps.Copy(cfg.DeptNames, input.Directory.Departments)
	}
	if input.Directory.Teams != nil {
		cfg.TeamNames = make(map[string]string, len(input.Directory.Teams))
		maps.Copy(cfg.TeamNames, input.Directory.Teams)
	}

	return nil
}

// processAsOf resolves the reference instant every calendar window anchors on.
func processAsOf(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.AsOf = now

	if input.AsOf == "" {
		return nil
	}

	t, err := time.Parse(DateTimeFormat, input.AsOf)
	if err == nil {
		cfg.AsOf = t
		return nil
	}
	t, relErr := ParseRelativeTime(input.AsOf, now)
	if relErr != nil {
		return fmt.Errorf("invalid as-of format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %v", input.AsOf, err)
	}
	cfg.AsOf = t
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processCheckThresholds merges check gate limits from defaults, the config
// file, and the command-line override, in that order of precedence.
func processCheckThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.CheckThresholds{
		MinOverallHealth: DefaultMinHealth,
		MaxCriticalAlert: DefaultMaxCritical,
		MaxHighRiskUsers: DefaultMaxHighRisk,
	}

	// Override with config file values if provided
	if input.Thresholds.Health != nil {
		thresholds.MinOverallHealth = *input.Thresholds.Health
	}
	if input.Thresholds.Critical != nil {
		thresholds.MaxCriticalAlert = *input.Thresholds.Critical
	}
	if input.Thresholds.HighRisk != nil {
		thresholds.MaxHighRiskUsers = *input.Thresholds.HighRisk
	}

	// Override with command-line flag if provided (takes precedence)
	if input.ThresholdsStr != "" {
		parsed, err := ParseCheckThresholdsString(input.ThresholdsStr, thresholds)
		if err != nil {
			return fmt.Errorf("invalid --thresholds-override format: %w", err)
		}
		thresholds = parsed
	}

	if thresholds.MinOverallHealth < 0 || thresholds.MinOverallHealth > 100 {
		return fmt.Errorf("health threshold must be between 0 and 100 (received %.2f)", thresholds.MinOverallHealth)
	}
	if thresholds.MaxCriticalAlert < 0 {
		return fmt.Errorf("critical threshold cannot be negative (received %d)", thresholds.MaxCriticalAlert)
	}
	if thresholds.MaxHighRiskUsers < 0 {
		return fmt.Errorf("high-risk threshold cannot be negative (received %d)", thresholds.MaxHighRiskUsers)
	}

	cfg.CheckThresholds = thresholds
	return nil
}

// resolveSnapshotPath normalizes the snapshot path from the positional argument.
func resolveSnapshotPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.SnapshotPathStr)
	if path == "" {
		return fmt.Errorf("snapshot path is required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cfg.SnapshotPath = filepath.Clean(absPath)
	return nil
}

// ParseCheckThresholdsString parses a string like "health:60,critical:0,high-risk:5"
// on top of the given base thresholds.
func ParseCheckThresholdsString(s string, base schema.CheckThresholds) (schema.CheckThresholds, error) {
	result := base

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return result, fmt.Errorf("invalid threshold format '%s', expected 'gate:value'", part)
		}

		key := strings.ToLower(strings.TrimSpace(keyValue[0]))
		valueStr := strings.TrimSpace(keyValue[1])

		switch key {
		case "health":
			value, err := strconv.ParseFloat(valueStr, 64)
			if err != nil {
				return result, fmt.Errorf("invalid threshold value '%s' for gate %s: %w", valueStr, key, err)
			}
			result.MinOverallHealth = value
		case "critical":
			value, err := strconv.Atoi(valueStr)
			if err != nil {
				return result, fmt.Errorf("invalid threshold value '%s' for gate %s: %w", valueStr, key, err)
			}
			result.MaxCriticalAlert = value
		case "high-risk":
			value, err := strconv.Atoi(valueStr)
			if err != nil {
				return result, fmt.Errorf("invalid threshold value '%s' for gate %s: %w", valueStr, key, err)
			}
			result.MaxHighRiskUsers = value
		default:
			return result, fmt.Errorf("invalid gate '%s', must be health, critical, or high-risk", key)
		}
	}

	return result, nil
}
