package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/entity"
)

// TSVDetector runs the tesseract CLI in TSV mode and groups its words into phrases.
type TSVDetector struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func (d *TSVDetector) Detect(ctx context.Context, imagePath string) ([]entity.Detection, error) {
	start := time.Now()
	args := []string{imagePath, "stdout", "-l", d.cfg.TesseractLang}
	if d.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(d.cfg.PSM))
	}
	if d.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", d.cfg.TessdataDir)
	}
	// TSV output
	args = append(args, "tsv")

	out, errb, err := d.runner.Run(ctx, d.cfg.Tesseract, d.logger, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract TSV: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	words, err := ParseTSV(string(out))
	if err != nil {
		return nil, err
	}
	dets := GroupWords(words)
	d.logger.Debug("tesseract detect ok",
		"page", common.PageFromContext(ctx),
		"path", imagePath,
		"words", len(words),
		"phrases", len(dets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return dets, nil
}

// tesseract TSV columns
const (
	colLevel = iota
	colPage
	colBlock
	colPar
	colLine
	colWord
	colLeft
	colTop
	colWidth
	colHeight
	colConf
	colText
	tsvColumns
)

const levelWord = 5

// ParseTSV extracts word rows from tesseract TSV output.
func ParseTSV(tsv string) ([]Word, error) {
	var words []Word
	for i, ln := range strings.Split(tsv, "\n") {
		ln = strings.TrimRight(ln, "\r")
		// first line is the header
		if i == 0 || ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < tsvColumns {
			continue
		}
		ints := make([]int, colConf)
		for c := colLevel; c < colConf; c++ {
			n, err := strconv.Atoi(cols[c])
			if err != nil {
				return nil, fmt.Errorf("tsv line %d column %d: %w", i+1, c+1, err)
			}
			ints[c] = n
		}
		if ints[colLevel] != levelWord {
			continue
		}
		text := strings.Join(cols[colText:], "\t")
		if strings.TrimSpace(text) == "" {
			continue
		}
		conf, _ := strconv.ParseFloat(cols[colConf], 64)
		if conf < 0 {
			conf = 0
		}
		left, top := ints[colLeft], ints[colTop]
		words = append(words, Word{
			Box:        image.Rect(left, top, left+ints[colWidth], top+ints[colHeight]),
			Text:       text,
			Confidence: conf / 100.0,
			Block:      ints[colBlock],
			Par:        ints[colPar],
			Line:       ints[colLine],
		})
	}
	return words, nil
}
