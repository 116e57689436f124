// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteShifts prints reconciled shift results using the configured output format.
func (ow *OutWriter) WriteShifts(results []schema.ShiftResult, cfg *contract.Config, duration time.Duration) error {
	return WriteShiftResults(results, cfg, duration)
}

// WriteScores prints composite user scores using the configured output format.
func (ow *OutWriter) WriteScores(scores []schema.UserScore, cfg *contract.Config, duration time.Duration) error {
	return WriteUserScores(scores, cfg, duration)
}

// WriteTree prints the alignment hierarchy using the configured output format.
func (ow *OutWriter) WriteTree(tree *schema.TreeNode, cfg *contract.Config, duration time.Duration) error {
	return WriteAlignmentTree(tree, cfg, duration)
}

// WriteReport prints the aggregate organization report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	return WriteReport(report, cfg, duration)
}

// WriteCheck prints the verdict of a policy check using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCheckResult(result, cfg, duration)
}
