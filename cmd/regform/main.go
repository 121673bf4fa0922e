package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/regform/internal/analyze"
	"github.com/joseph-ayodele/regform/internal/checkpoint"
	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/export"
	"github.com/joseph-ayodele/regform/internal/form"
	"github.com/joseph-ayodele/regform/internal/lookup"
	"github.com/joseph-ayodele/regform/internal/ocr"
	"github.com/joseph-ayodele/regform/internal/pipeline"
	"github.com/joseph-ayodele/regform/internal/render"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		input      = flag.String("input", "scans.pdf", "scanned PDF to fill in")
		output     = flag.String("output", "out.pdf", "output PDF with the printable overlays")
		start      = flag.Int("start", 1, "first page to analyse; earlier pages are replayed from the checkpoint")
		verbose    = flag.Bool("verbose", true, "log per-page progress")
		debug      = flag.Bool("debug", false, "also write <output>_debug.pdf and keep page artifacts")
		tablePath  = flag.String("table", "", "identifier -> approval code table (overrides REGFORM_TABLE)")
		checkpoint = flag.String("checkpoint", "", "checkpoint file (overrides REGFORM_CHECKPOINT)")
		profile    = flag.String("profile", "", "form profile JSON (overrides REGFORM_PROFILE)")
	)
	flag.Parse()

	if flag.NArg() > 0 {
		printError("Error: unexpected arguments %v\n", flag.Args())
		flag.Usage()
		os.Exit(2)
	}
	if *start < 1 {
		printError("Error: -start must be at least 1\n")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *tablePath != "" {
		cfg.Table.Path = *tablePath
	}
	if *checkpoint != "" {
		cfg.Run.CheckpointPath = *checkpoint
	}
	if *profile != "" {
		cfg.Render.ProfilePath = *profile
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	ctx = common.WithRunID(ctx, runID)

	proc, err := wire(cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}

	began := time.Now()
	sum, err := proc.Run(ctx, pipeline.Options{
		Input:  *input,
		Output: *output,
		Start:  *start,
		Debug:  *debug,
	})
	if err != nil {
		printError("Error: %v\n", err)
		printHint(err, cfg)
		os.Exit(1)
	}

	fmt.Printf("run %s: %d pages (%d analysed, %d from checkpoint) in %s\n",
		runID, sum.Pages, sum.Analyzed, sum.Replayed, time.Since(began).Round(time.Millisecond))
	fmt.Printf("  print document: %s\n", sum.Output)
	if sum.DebugOutput != "" {
		fmt.Printf("  debug document: %s\n", sum.DebugOutput)
	}
}

func wire(cfg *common.Config, logger *slog.Logger) (*pipeline.Processor, error) {
	prof, err := form.Load(cfg.Render.ProfilePath)
	if err != nil {
		return nil, err
	}
	table, err := lookup.Load(cfg.Table.Path, lookup.Columns{Key: cfg.Table.KeyColumn, Value: cfg.Table.ValueColumn}, logger)
	if err != nil {
		return nil, err
	}
	analyzer, err := analyze.New(prof, table, logger)
	if err != nil {
		return nil, err
	}
	typeface, err := render.LoadTypeface(cfg.Render.FontPath)
	if err != nil {
		return nil, err
	}

	ocrCfg := ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		PSM:           cfg.OCR.PSM,
	}
	var detector ocr.Detector = ocr.NewDetector(ocrCfg, logger)
	if cfg.OCR.Engine == common.EngineGosseract {
		if detector, err = newNativeDetector(ocrCfg, logger); err != nil {
			return nil, err
		}
	}

	deps := pipeline.Deps{
		Rasterizer: ocr.NewRasterizer(ocrCfg, logger),
		Detector:   detector,
		Analyzer:   analyzer,
		Document:   export.NewService(cfg.OCR.DPI, logger),
		Checkpoint: checkpoint.New(cfg.Run.CheckpointPath, logger),
		Typeface:   typeface,
		Profile:    prof,
		WorkDir:    cfg.Run.WorkDir,
	}
	if v := pipeline.NewCommandViewer(cfg.Render.Viewer, ocr.ExecRunner(), logger); v != nil {
		deps.Viewer = v
	}
	return pipeline.NewProcessor(deps, logger), nil
}

// printHint tells the operator how to continue after a failed run.
func printHint(err error, cfg *common.Config) {
	var pe *common.PageError
	switch {
	case errors.As(err, &pe):
		printError("Progress saved to %s. Fix page %d (e.g. rescan it) and rerun with -start %d.\n",
			cfg.Run.CheckpointPath, pe.Page, pe.Page)
	case errors.Is(err, common.ErrNoCheckpoint):
		printError("No checkpoint at %s. Run without -start to process the document from page 1.\n",
			cfg.Run.CheckpointPath)
	case errors.Is(err, context.Canceled):
		printError("Interrupted. Rerun with -start set to the first unfinished page to resume.\n")
	}
}
