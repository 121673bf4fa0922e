// Package export assembles rendered page images into PDF documents.
package export

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/joseph-ayodele/regform/internal/common"
)

// Service is a small façade over pdfcpu.
type Service struct {
	conf   *model.Configuration
	dpi    int
	logger *slog.Logger
}

// NewService returns a Service laying out images at dpi; zero or less maps one
// pixel to one point.
func NewService(dpi int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Service{conf: conf, dpi: dpi, logger: logger}
}

// PageCount returns the number of pages of the PDF at path.
func (s *Service) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, common.NewAppError(common.CodeRasterize, fmt.Sprintf("count pages of %s", path), err)
	}
	return n, nil
}

// AssembleImages writes images, one per page and each page the physical size
// of its image at the service DPI, as a new PDF at outPath.
func (s *Service) AssembleImages(ctx context.Context, images []string, outPath string) error {
	start := time.Now()
	if len(images) == 0 {
		return common.NewAppError(common.CodeAssemble, outPath+": no pages", common.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// pdfcpu appends to an existing file, so build next to the target and swap in.
	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".assemble-*.pdf")
	if err != nil {
		return common.NewAppError(common.CodeAssemble, "create temp pdf", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(tmpPath)
	defer func() { _ = os.Remove(tmpPath) }()

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		imp, err := s.importConfig(img)
		if err != nil {
			return common.NewAppError(common.CodeAssemble, img, err)
		}
		// each call appends one page to tmpPath
		if err := api.ImportImagesFile([]string{img}, tmpPath, imp, s.conf); err != nil {
			return common.NewAppError(common.CodeAssemble, fmt.Sprintf("import %s into %s", img, outPath), err)
		}
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return common.NewAppError(common.CodeAssemble, "rename pdf", err)
	}

	s.logger.Info("document assembled",
		"path", outPath,
		"pages", len(images),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// importConfig sizes the page to the image at s.dpi and lets the image fill it.
func (s *Service) importConfig(path string) (*pdfcpu.Import, error) {
	imp := pdfcpu.DefaultImportConfig()
	if s.dpi <= 0 {
		imp.Pos = types.Full
		return imp, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}

	const pointsPerInch = 72.0
	imp.PageDim = &types.Dim{
		Width:  float64(cfg.Width) * pointsPerInch / float64(s.dpi),
		Height: float64(cfg.Height) * pointsPerInch / float64(s.dpi),
	}
	imp.UserDim = true
	imp.Pos = types.Center
	imp.Scale = 1.0
	imp.ScaleAbs = false
	return imp, nil
}
