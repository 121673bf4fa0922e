package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type recordRunner struct {
	cmd []string
	err error
}

func (r *recordRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	r.cmd = append([]string{name}, args...)
	return nil, []byte("cannot open display"), r.err
}

func TestCommandViewer(t *testing.T) {
	if v := NewCommandViewer("  ", nil, nil); v != nil {
		t.Fatal("blank command should disable the viewer")
	}

	run := &recordRunner{}
	v := NewCommandViewer("feh --scale-down", run, nil)
	if err := v.Show(context.Background(), "tmp/pages/debug-001.jpg"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got := strings.Join(run.cmd, " "); got != "feh --scale-down tmp/pages/debug-001.jpg" {
		t.Errorf("command = %q", got)
	}

	run.err = errors.New("exit status 2")
	err := v.Show(context.Background(), "x.jpg")
	if !errors.Is(err, run.err) || !strings.Contains(err.Error(), "cannot open display") {
		t.Errorf("err = %v", err)
	}
}
