package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/regform/internal/ocr"
)

// CommandViewer opens debug pages with an external program, e.g. "xdg-open".
type CommandViewer struct {
	command []string
	runner  ocr.Runner
	logger  *slog.Logger
}

// NewCommandViewer returns nil when command is blank.
func NewCommandViewer(command string, runner ocr.Runner, logger *slog.Logger) *CommandViewer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	if runner == nil {
		runner = ocr.ExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandViewer{command: fields, runner: runner, logger: logger}
}

func (v *CommandViewer) Show(ctx context.Context, path string) error {
	args := append(append([]string{}, v.command[1:]...), path)
	if _, errb, err := v.runner.Run(ctx, v.command[0], v.logger, args...); err != nil {
		return fmt.Errorf("%s: %w: %s", v.command[0], err, strings.TrimSpace(string(errb)))
	}
	return nil
}
