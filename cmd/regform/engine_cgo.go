//go:build cgo

package main

import (
	"log/slog"

	"github.com/joseph-ayodele/regform/internal/ocr"
	"github.com/joseph-ayodele/regform/internal/ocr/libtess"
)

func newNativeDetector(cfg ocr.Config, logger *slog.Logger) (ocr.Detector, error) {
	return libtess.New(cfg, logger), nil
}
