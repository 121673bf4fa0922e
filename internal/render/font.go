// Package render sizes the overlay font and draws the approval and owner codes
// onto page-sized surfaces.
package render

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/form"
)

// MaxFontSize bounds the sizing search.
const MaxFontSize = 4096

// Font is a sized face ready for drawing.
type Font struct {
	Face font.Face
	Size float64
}

// LoadTypeface parses the TTF/OTF file at path. An empty path yields Go Regular.
func LoadTypeface(path string) (*opentype.Font, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	tt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	return tt, nil
}

func newFace(tt *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // 1pt == 1px
		Hinting: font.HintingNone,
	})
}

// SizeFont grows the font from p.FontStartSize by p.FontGrowth until
// p.ReferenceText is wider than p.WidthFactor times labelWidth, and returns
// the first size that satisfies it.
func SizeFont(tt *opentype.Font, labelWidth float64, p form.Profile) (Font, error) {
	if labelWidth <= 0 {
		return Font{}, common.NewAppError(common.CodeRender, fmt.Sprintf("label width %.0f", labelWidth), common.ErrInvalidInput)
	}
	target := labelWidth * p.WidthFactor
	size := p.FontStartSize
	for {
		face, err := newFace(tt, size)
		if err != nil {
			return Font{}, fmt.Errorf("font face at %.0f: %w", size, err)
		}
		w := float64(font.MeasureString(face, p.ReferenceText)) / 64
		if w > target {
			return Font{Face: face, Size: size}, nil
		}
		_ = face.Close()

		next := math.Floor(size * p.FontGrowth)
		if next <= size {
			next = size + 1
		}
		if next > MaxFontSize {
			return Font{}, common.NewAppError(common.CodeRender,
				fmt.Sprintf("reference text %q never exceeds %.0fpx", p.ReferenceText, target), common.ErrInvalidInput)
		}
		size = next
	}
}
