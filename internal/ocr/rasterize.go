package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Rasterizer renders every page of a PDF to a PNG file.
type Rasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// Rasterize writes one PNG per page of pdfPath into outDir and returns the
// paths in page order.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	start := time.Now()
	// pages of an earlier, interrupted run would be globbed with ours
	if err := os.RemoveAll(outDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	prefix := filepath.Join(outDir, "page")
	// pdftoppm -r 800 -png <in.pdf> <dir/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, r.logger, "-r", strconv.Itoa(r.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	// collect generated pngs (page-1.png or page-01.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return nil, fmt.Errorf("no pages rendered from %s", pdfPath)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return pageSuffix(matches[i]) < pageSuffix(matches[j])
	})

	r.logger.Info("rasterized document",
		"path", pdfPath,
		"pages", len(matches),
		"dpi", r.cfg.DPI,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return matches, nil
}

// pageSuffix extracts N from ".../page-N.png"; unparsable names sort last.
func pageSuffix(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	i := strings.LastIndex(base, "-")
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
