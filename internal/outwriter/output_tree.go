package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// WriteAlignmentTree outputs the alignment hierarchy, dispatching based on the output format configured.
func WriteAlignmentTree(tree *schema.TreeNode, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, tree)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForTree(w, tree, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the alignment tree; use text, csv or json")
	default:
		// Default to human-readable outline
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTreeOutline(tree, cfg, fmtFloat, duration, w)
		}, "Wrote tree")
	}
	return nil
}

// writeTreeOutline writes the hierarchy as an indented text outline with
// per-kind markers and key-result leaves labeled "name (current/target unit)".
func writeTreeOutline(tree *schema.TreeNode, _ *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	var sb strings.Builder
	tree.Walk(func(node *schema.TreeNode, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(kindMarker(node.Kind))
		sb.WriteString(" ")
		sb.WriteString(node.Name)
		if node.Kind == schema.KRNode {
			sb.WriteString(fmt.Sprintf(" (%s/%s", fmtFloat(node.Current), fmtFloat(node.Target)))
			if node.Unit != "" {
				sb.WriteString(" " + node.Unit)
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	})
	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return err
	}

	// Compute summary stats
	companies := tree.CountKind(schema.CompanyNode)
	goals := tree.CountKind(schema.GoalNode)
	krs := tree.CountKind(schema.KRNode)
	if _, err := fmt.Fprintf(writer, "%d companies, %d goals, %d key results\n", companies, goals, krs); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Tree built in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForTree writes the hierarchy as flattened rows in depth-first order.
func writeCSVResultsForTree(w io.Writer, tree *schema.TreeNode, fmtFloat func(float64) string) error {
	header := []string{
		"depth",
		"kind",
		"name",
		"current",
		"target",
		"unit",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		var rowErr error
		tree.Walk(func(node *schema.TreeNode, depth int) {
			if rowErr != nil {
				return
			}
			current, target := "", ""
			if node.Kind == schema.KRNode {
				current = fmtFloat(node.Current)
				target = fmtFloat(node.Target)
			}
			rowErr = cw.Write([]string{
				strconv.Itoa(depth),
				string(node.Kind),
				node.Name,
				current,
				target,
				node.Unit,
			})
		})
		return rowErr
	})
}

// kindMarker returns the outline marker for a node kind.
func kindMarker(kind schema.NodeKind) string {
	switch kind {
	case schema.RootNode:
		return "🌐"
	case schema.CompanyNode:
		return "🏢"
	case schema.DeptNode:
		return "🏬"
	case schema.TeamNode:
		return "👥"
	case schema.PersonalNode:
		return "👤"
	case schema.GroupNode:
		return "📁"
	case schema.GoalNode:
		return "🎯"
	case schema.KRNode:
		return "📊"
	default:
		return "•"
	}
}
