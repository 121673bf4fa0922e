//go:build cgo

// Package libtess detects text through the linked tesseract library.
// It needs cgo and the tesseract/leptonica headers at build time.
package libtess

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/ocr"
)

// Detector implements ocr.Detector with a gosseract client per call.
type Detector struct {
	cfg           ocr.Config
	clientFactory func() *gosseract.Client
	logger        *slog.Logger
}

var _ ocr.Detector = (*Detector)(nil)

func New(cfg ocr.Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "deu"
	}
	return &Detector{cfg: cfg, clientFactory: gosseract.NewClient, logger: logger}
}

func (d *Detector) Detect(ctx context.Context, imagePath string) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	c := d.clientFactory()
	defer c.Close()

	if d.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(d.cfg.TessdataDir); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(d.cfg.TesseractLang); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if d.cfg.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(d.cfg.PSM)); err != nil {
			return nil, fmt.Errorf("set psm: %w", err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}
	words := make([]ocr.Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, ocr.Word{
			Box:        b.Box,
			Text:       b.Word,
			Confidence: b.Confidence / 100.0,
			Block:      b.BlockNum,
			Par:        b.ParNum,
			Line:       b.LineNum,
		})
	}
	dets := ocr.GroupWords(words)
	d.logger.Debug("gosseract detect ok",
		"page", common.PageFromContext(ctx),
		"path", imagePath,
		"words", len(words),
		"phrases", len(dets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return dets, nil
}
