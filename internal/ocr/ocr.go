// Package ocr wraps the external tools that turn a scanned PDF into page rasters
// and page rasters into positioned text.
package ocr

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/regform/internal/entity"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "deu"
	TessdataDir   string
	DPI           int // rasterization DPI, default 800

	PSM int // page segmentation mode; 0 keeps tesseract's default
}

func (c Config) withDefaults() Config {
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.TesseractLang == "" {
		c.TesseractLang = "deu"
	}
	if c.DPI <= 0 {
		c.DPI = 800
	}
	return c
}

// Detector finds text regions on a page image.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]entity.Detection, error)
}

// NewDetector returns the tesseract CLI detector.
func NewDetector(cfg Config, logger *slog.Logger) *TSVDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &TSVDetector{cfg: cfg.withDefaults(), runner: execRunner{}, logger: logger}
}

// NewRasterizer returns the pdftoppm rasterizer.
func NewRasterizer(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{cfg: cfg.withDefaults(), runner: execRunner{}, logger: logger}
}
