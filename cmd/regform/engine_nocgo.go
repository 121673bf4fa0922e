//go:build !cgo

package main

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/ocr"
)

func newNativeDetector(ocr.Config, *slog.Logger) (ocr.Detector, error) {
	return nil, fmt.Errorf("OCR_ENGINE=%s needs a cgo build: %w", common.EngineGosseract, common.ErrInvalidInput)
}
