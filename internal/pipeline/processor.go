// Package pipeline drives a scanned document through rasterization,
// detection, analysis, validation, rendering and assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"

	"github.com/joseph-ayodele/regform/constants"
	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/form"
	"github.com/joseph-ayodele/regform/internal/ocr"
)

// Rasterizer renders every page of a PDF to an image file.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// Analyzer turns one page's detections into a record.
type Analyzer interface {
	Analyze(page int, dets []entity.Detection) entity.PageRecord
}

// Document counts input pages and assembles output pages.
type Document interface {
	PageCount(path string) (int, error)
	AssembleImages(ctx context.Context, images []string, outPath string) error
}

// Checkpoint persists the records of the current attempt.
type Checkpoint interface {
	Load() ([]entity.PageRecord, error)
	Save(records []entity.PageRecord) error
	Remove() error
}

// Viewer shows a rendered debug page to the operator.
type Viewer interface {
	Show(ctx context.Context, path string) error
}

// Deps are the collaborators of a Processor. Viewer is optional.
type Deps struct {
	Rasterizer Rasterizer
	Detector   ocr.Detector
	Analyzer   Analyzer
	Document   Document
	Checkpoint Checkpoint
	Viewer     Viewer
	Typeface   *opentype.Font
	Profile    form.Profile
	WorkDir    string
}

type Processor struct {
	deps   Deps
	logger *slog.Logger
}

func NewProcessor(deps Deps, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.WorkDir == "" {
		deps.WorkDir = "./tmp"
	}
	return &Processor{deps: deps, logger: logger}
}

// Options select one run.
type Options struct {
	Input  string
	Output string
	Start  int // 1-based; pages before it are replayed from the checkpoint
	Debug  bool
}

// Summary describes a finished run.
type Summary struct {
	Pages       int
	Analyzed    int
	Replayed    int
	FontSize    float64
	Output      string
	DebugOutput string
}

// DebugPath derives the debug document path from the print document path.
func DebugPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_debug" + ext
}

func (p *Processor) rawDir() string   { return filepath.Join(p.deps.WorkDir, "raw") }
func (p *Processor) pagesDir() string { return filepath.Join(p.deps.WorkDir, "pages") }

func (p *Processor) artifact(pattern string, page int) string {
	return filepath.Join(p.pagesDir(), fmt.Sprintf(pattern, page))
}

func (p *Processor) transition(logger *slog.Logger, state constants.RunState, args ...any) {
	logger.Debug("state", append([]any{"state", state}, args...)...)
}

func (p *Processor) fail(logger *slog.Logger, err error, args ...any) error {
	logger.Error("run failed", append([]any{"state", constants.StateFailed, "error", err}, args...)...)
	return err
}

// resumeRecords loads the checkpoint and keeps the records of pages before start,
// all of which must be present and valid.
func (p *Processor) resumeRecords(start int) ([]entity.PageRecord, error) {
	all, err := p.deps.Checkpoint.Load()
	if err != nil {
		return nil, err
	}
	prior := make([]entity.PageRecord, 0, start-1)
	for _, r := range all {
		if r.Page < start {
			prior = append(prior, r)
		}
	}
	for i := 0; i < start-1; i++ {
		want := i + 1
		if i >= len(prior) || prior[i].Page != want {
			return nil, common.NewAppError(common.CodeResume,
				fmt.Sprintf("checkpoint has no record for page %d", want), common.ErrInvalidInput)
		}
		if !prior[i].Valid() {
			return nil, common.NewAppError(common.CodeResume,
				fmt.Sprintf("checkpoint record for page %d is incomplete (missing %s)", want, strings.Join(prior[i].Missing(), ", ")),
				common.ErrInvalidInput)
		}
	}
	return prior, nil
}
