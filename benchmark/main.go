// Package main provides a performance benchmarking tool for the okrpulse CLI.
// It generates synthetic snapshots of increasing size, measures execution
// times across command types, running each test multiple times and averaging,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - okrpulse binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory to write the generated snapshot files into
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/okrpulse/okrpulse/schema"
)

// BenchmarkResult holds the result of a benchmark run (per-command averages
// with and without history recording).
type BenchmarkResult struct {
	Snapshot      string
	Command       string
	NoHistoryTime string
	HistoryTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	Runs          int
	SnapshotSizes map[string]int // name -> user count
	Commands      []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 2 * time.Minute,
		Runs:    3,
		SnapshotSizes: map[string]int{
			"small":  50,
			"medium": 500,
			"large":  2000,
		},
		Commands: []string{"shifts", "scores", "tree", "report"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear history so recorded runs start from a known state
	fmt.Printf("Clearing report history...\n")
	clearCmd := exec.Command("okrpulse", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Report history cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the okrpulse binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if okrpulse is available
	if _, err := exec.LookPath("okrpulse"); err != nil {
		return fmt.Errorf("okrpulse binary not found in PATH")
	}

	if _, err := os.Stat(config.WorkDir); os.IsNotExist(err) {
		return fmt.Errorf("work directory not found at %s", config.WorkDir)
	}

	return nil
}

// runBenchmarks executes all benchmark tests across generated snapshot sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d snapshot sizes, %v timeout, %d runs per phase\n",
		len(config.SnapshotSizes), config.Timeout, config.Runs)

	for _, name := range []string{"small", "medium", "large"} {
		users := config.SnapshotSizes[name]
		fmt.Printf("Benchmarking %s snapshot (%d users)\n", name, users)

		snapshotPath, err := generateSnapshot(config.WorkDir, name, users)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s snapshot: %v\n", name, err)
			continue
		}

		for _, command := range config.Commands {
			result := runBenchmarkSuite(config, name, snapshotPath, command)
			results = append(results, result)
		}
	}

	return results
}

// generateSnapshot writes a synthetic snapshot with the given user count.
// Each user owns two goals, each goal carries two key results, and each key
// result has a short checkin trail inside the current quarter.
func generateSnapshot(workDir, name string, userCount int) (string, error) {
	rng := rand.New(rand.NewSource(42)) // fixed seed keeps runs comparable
	now := time.Now()

	snap := schema.Snapshot{FetchedAt: now}
	snap.Targets = append(snap.Targets,
		schema.Target{ID: "t-company", Scope: schema.CompanyScope, Name: "Company"},
		schema.Target{ID: "t-team", Scope: schema.TeamScope, ParentID: "t-company", Name: "Team"},
	)

	for u := 0; u < userCount; u++ {
		userID := fmt.Sprintf("u%d", u)
		snap.Users = append(snap.Users, schema.User{ID: userID, Name: fmt.Sprintf("User %d", u)})

		for g := 0; g < 2; g++ {
			goalID := fmt.Sprintf("%s-g%d", userID, g)
			targetID := "t-team"
			if g%2 == 1 {
				targetID = schema.UnalignedTargetID // exercise the personal branch
			}
			snap.Goals = append(snap.Goals, schema.Goal{
				ID: goalID, OwnerUserID: userID, Name: goalID,
				TargetID: targetID, TeamID: "team-1",
				Since: now.AddDate(0, -2, 0).Unix(),
			})

			for k := 0; k < 2; k++ {
				krID := fmt.Sprintf("%s-k%d", goalID, k)
				current := rng.Float64() * 100
				snap.KeyResults = append(snap.KeyResults, schema.KeyResult{
					ID: krID, GoalID: goalID, OwnerUserID: userID,
					Name: krID, CurrentValue: current, Unit: "%", TargetValue: 100,
				})
				for c := 0; c < 3; c++ {
					snap.Checkpoints = append(snap.Checkpoints, schema.Checkpoint{
						KRID: krID, UserID: userID,
						Timestamp: now.AddDate(0, 0, -7*(3-c)).Unix(),
						Value:     current * float64(c+1) / 3,
					})
				}
			}
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}

	path := filepath.Join(workDir, fmt.Sprintf("snapshot_%s.json", name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, snapshotPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s snapshot\n", command, name)

	// Helper to run a benchmark phase
	runPhase := func(historyBackend string, phaseName string) string {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, config.Runs)
		times := runBenchmark(config, snapshotPath, command, historyBackend)
		if len(times) == 0 {
			return "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No-history runs
	noHistoryAvg := runPhase("none", "No-history")

	// Phase 2: History-recording runs
	historyAvg := runPhase("sqlite", "History")

	fmt.Printf("  No-history average: %s, History average: %s\n", noHistoryAvg, historyAvg)

	return BenchmarkResult{
		Snapshot:      name,
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		HistoryTime:   historyAvg,
	}
}

// runBenchmark executes an okrpulse command multiple times with the specified
// history backend and returns the wall times of successful runs
func runBenchmark(config BenchmarkConfig, snapshotPath, command, historyBackend string) []float64 {
	args := []string{command, snapshotPath, "--history-backend", historyBackend}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("okrpulse", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	return times
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)

	// The tree command reports "built in"; every other command "completed in".
	return strings.Contains(outputStr, "completed in") ||
		strings.Contains(outputStr, "built in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/okrpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"snapshot", "cmd", "no_history_avg", "history_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Snapshot, result.Command, result.NoHistoryTime, result.HistoryTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "shifts", "Shift Analysis:")
	printCommandSummary(results, "scores", "Score Analysis:")
	printCommandSummary(results, "tree", "Tree Analysis:")
	printCommandSummary(results, "report", "Report Analysis:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: No-history: %s, History: %s\n", result.Snapshot, result.NoHistoryTime, result.HistoryTime)
		}
	}
}
