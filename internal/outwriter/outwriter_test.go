package outwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutWriterFacade(t *testing.T) {
	ow := NewOutWriter()
	dir := t.TempDir()
	cfg := &contract.Config{
		Precision: 2,
		Output:    schema.JSONOut,
		Width:     120,
	}

	writes := []struct {
		name string
		run  func(outputFile string) error
	}{
		{
			name: "shifts",
			run: func(f string) error {
				cfg.OutputFile = f
				return ow.WriteShifts([]schema.ShiftResult{{UserID: "u1", UserName: "Ada"}}, cfg, time.Millisecond)
			},
		},
		{
			name: "scores",
			run: func(f string) error {
				cfg.OutputFile = f
				return ow.WriteScores(sampleScores(), cfg, time.Millisecond)
			},
		},
		{
			name: "tree",
			run: func(f string) error {
				cfg.OutputFile = f
				return ow.WriteTree(sampleTree(), cfg, time.Millisecond)
			},
		},
		{
			name: "report",
			run: func(f string) error {
				cfg.OutputFile = f
				return ow.WriteReport(sampleReport(), cfg, time.Millisecond)
			},
		},
		{
			name: "check",
			run: func(f string) error {
				cfg.OutputFile = f
				return ow.WriteCheck(sampleCheckResult(true), cfg, time.Millisecond)
			},
		},
	}

	for _, w := range writes {
		t.Run(w.name, func(t *testing.T) {
			path := filepath.Join(dir, w.name+".json")
			require.NoError(t, w.run(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{
			name:     "wide terminal caps at maximum",
			width:    200,
			expected: 40,
		},
		{
			name:     "default terminal width",
			width:    80,
			expected: 18,
		},
		{
			name:     "narrow terminal floors at minimum",
			width:    70,
			expected: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableNameWidth(cfg))
		})
	}
}
