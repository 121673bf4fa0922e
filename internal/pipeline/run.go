package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/regform/constants"
	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/render"
)

// Run processes opts.Input page by page and writes opts.Output.
//
// Every analysed page is appended to the checkpoint before it is validated, so a
// run that stops on an invalid page can be resumed with Start set to that page
// once the input is fixed. Pages before Start are replayed from the checkpoint
// and render exactly as they did in the original run.
func (p *Processor) Run(ctx context.Context, opts Options) (Summary, error) {
	start := time.Now()
	logger := p.logger
	if id := common.RunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	if opts.Start == 0 {
		opts.Start = 1
	}
	if opts.Start < 1 {
		return Summary{}, common.NewAppError(common.CodeResume, fmt.Sprintf("start page %d", opts.Start), common.ErrInvalidInput)
	}

	var prior []entity.PageRecord
	if opts.Start > 1 {
		p.transition(logger, constants.StateResuming, "start", opts.Start)
		recs, err := p.resumeRecords(opts.Start)
		if err != nil {
			return Summary{}, p.fail(logger, err, "start", opts.Start)
		}
		prior = recs
		logger.Info("resuming run", "start", opts.Start, "replayed_pages", len(prior))
	} else if err := p.deps.Checkpoint.Remove(); err != nil {
		// a fresh run must not leave an earlier run's records behind
		return Summary{}, p.fail(logger, err)
	}

	p.transition(logger, constants.StateAwaitingRasterization, "input", opts.Input)
	pages, err := p.deps.Document.PageCount(opts.Input)
	if err != nil {
		return Summary{}, p.fail(logger, err)
	}
	if opts.Start > pages {
		err := common.NewAppError(common.CodeResume,
			fmt.Sprintf("start page %d beyond the %d pages of %s", opts.Start, pages, opts.Input), common.ErrInvalidInput)
		return Summary{}, p.fail(logger, err)
	}

	defer func() {
		if err := os.RemoveAll(p.rawDir()); err != nil {
			logger.Warn("failed to remove raster dir", "path", p.rawDir(), "error", err)
		}
	}()
	rasters, err := p.deps.Rasterizer.Rasterize(ctx, opts.Input, p.rawDir())
	if err != nil {
		return Summary{}, p.fail(logger, common.NewAppError(common.CodeRasterize, opts.Input, err))
	}
	if len(rasters) != pages {
		err := common.NewAppError(common.CodeRasterize,
			fmt.Sprintf("%s: rasterized %d pages, document has %d", opts.Input, len(rasters), pages), nil)
		return Summary{}, p.fail(logger, err)
	}
	p.transition(logger, constants.StateRasterized, "pages", pages)

	if err := os.MkdirAll(p.pagesDir(), 0o755); err != nil {
		return Summary{}, p.fail(logger, err)
	}

	var (
		records = slices.Clone(prior)
		slot    fontSlot
		masks   = make([]string, 0, pages)
		debugs  []string
		sum     = Summary{Pages: pages, Replayed: len(prior)}
	)
	for i, raster := range rasters {
		page := i + 1
		if err := ctx.Err(); err != nil {
			return sum, p.fail(logger, err, "page", page)
		}
		plog := logger.With("page", page)
		pctx := common.WithPage(ctx, page)

		img, err := imaging.Open(raster)
		if err != nil {
			return sum, p.fail(plog, common.NewAppError(common.CodeRasterize, "open raster", err))
		}

		var rec entity.PageRecord
		if page < opts.Start {
			rec = prior[i]
		} else {
			plog.Info("working on page", "of", pages)
			rec, err = p.analyzePage(pctx, plog, page, img)
			if err != nil {
				return sum, p.fail(plog, err)
			}
			records = append(records, rec)
			if err := p.deps.Checkpoint.Save(records); err != nil {
				return sum, p.fail(plog, err)
			}
			p.transition(plog, constants.StateAnalyzed, "identifier", rec.IdentifierOrDefault(), "approval_code", rec.ApprovalOrDefault())
			sum.Analyzed++

			if !rec.Valid() {
				err := &common.PageError{Page: page, Identifier: rec.IdentifierOrDefault(), Missing: rec.Missing()}
				return sum, p.fail(plog, err)
			}
		}
		p.transition(plog, constants.StateValidated)

		if err := slot.init(p.deps.Typeface, rec, img.Bounds().Size(), p.deps.Profile); err != nil {
			return sum, p.fail(plog, err)
		}
		if slot.justSet {
			plog.Info("font sized", "size", slot.font.Size, "canonical_width", slot.size.X, "canonical_height", slot.size.Y)
		}

		mask, debug, err := p.renderPage(pctx, plog, page, rec, img, &slot, opts.Debug)
		if err != nil {
			return sum, p.fail(plog, err)
		}
		masks = append(masks, mask)
		if debug != "" {
			debugs = append(debugs, debug)
		}
		p.transition(plog, constants.StateRendered)
	}
	sum.FontSize = slot.font.Size

	if err := p.deps.Document.AssembleImages(ctx, masks, opts.Output); err != nil {
		return sum, p.fail(logger, err)
	}
	sum.Output = opts.Output
	if opts.Debug {
		dbg := DebugPath(opts.Output)
		if err := p.deps.Document.AssembleImages(ctx, debugs, dbg); err != nil {
			return sum, p.fail(logger, err)
		}
		sum.DebugOutput = dbg
	}
	p.transition(logger, constants.StateAssembled, "output", opts.Output)

	if err := p.deps.Checkpoint.Remove(); err != nil {
		logger.Warn("failed to remove checkpoint", "error", err)
	}
	if !opts.Debug {
		if err := os.RemoveAll(p.pagesDir()); err != nil {
			logger.Warn("failed to remove page artifacts", "path", p.pagesDir(), "error", err)
		}
	}

	logger.Info("run complete",
		"pages", sum.Pages,
		"analyzed", sum.Analyzed,
		"replayed", sum.Replayed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}

// analyzePage writes the scan artifact, detects text on it and analyses the detections.
func (p *Processor) analyzePage(ctx context.Context, logger *slog.Logger, page int, img image.Image) (entity.PageRecord, error) {
	scan := p.artifact(constants.ScanArtifactPattern, page)
	if err := imaging.Save(img, scan); err != nil {
		return entity.PageRecord{}, fmt.Errorf("save scan artifact: %w", err)
	}

	dets, err := p.deps.Detector.Detect(ctx, scan)
	if err != nil {
		return entity.PageRecord{}, common.NewAppError(common.CodeDetect, fmt.Sprintf("page %d", page), err)
	}
	p.transition(logger, constants.StateDetected, "detections", len(dets))

	return p.deps.Analyzer.Analyze(page, dets), nil
}

// renderPage draws the print mask and, in debug mode, the colour composite.
func (p *Processor) renderPage(ctx context.Context, logger *slog.Logger, page int, rec entity.PageRecord, img image.Image, slot *fontSlot, debug bool) (string, string, error) {
	labelWidth := rec.AnchorA.Width()

	mask := render.NewMask(slot.size)
	render.DrawOverlay(mask, rec, labelWidth, *slot.font, p.deps.Profile)
	maskPath := p.artifact(constants.MaskArtifactPattern, page)
	if err := imaging.Save(mask, maskPath); err != nil {
		return "", "", common.NewAppError(common.CodeRender, "save mask", err)
	}
	if !debug {
		return maskPath, "", nil
	}

	composite := imaging.Clone(img)
	render.DrawOverlay(composite, rec, labelWidth, *slot.font, p.deps.Profile)
	debugPath := p.artifact(constants.DebugArtifactPattern, page)
	if err := imaging.Save(composite, debugPath); err != nil {
		return "", "", common.NewAppError(common.CodeRender, "save debug page", err)
	}
	if p.deps.Viewer != nil {
		if err := p.deps.Viewer.Show(ctx, debugPath); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("viewer failed", "path", debugPath, "error", err)
		}
	}
	return maskPath, debugPath, nil
}
