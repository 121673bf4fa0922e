package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/form"
)

// Text is one string to draw, positioned by the top-left of its line box.
type Text struct {
	At    image.Point
	Value string
}

// Placement computes where the approval code and the owner code go.
// rec must be valid.
func Placement(rec entity.PageRecord, labelWidth int, p form.Profile) (approval, owner Text) {
	a, b := *rec.AnchorA, *rec.AnchorB
	approval = Text{
		At:    image.Pt(a.TopRight().X+int(float64(labelWidth)*p.ApprovalOffset), a.TopLeft().Y),
		Value: *rec.ApprovalCode,
	}
	owner = Text{
		At:    image.Pt(b.TopRight().X+int(float64(labelWidth)*p.OwnerOffset), b.TopLeft().Y),
		Value: p.OwnerCode,
	}
	return approval, owner
}

var maskPalette = color.Palette{color.White, color.Black}

// NewMask returns a blank two-tone surface of the given size.
func NewMask(size image.Point) *image.Paletted {
	// index 0 is white, so the zero value is already blank
	return image.NewPaletted(image.Rectangle{Max: size}, maskPalette)
}

// DrawOverlay writes both codes onto dst in solid black.
func DrawOverlay(dst draw.Image, rec entity.PageRecord, labelWidth int, f Font, p form.Profile) {
	approval, owner := Placement(rec, labelWidth, p)
	for _, t := range []Text{approval, owner} {
		drawText(dst, t, f.Face)
	}
}

func drawText(dst draw.Image, t Text, face font.Face) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(t.At.X, t.At.Y).Add(fixed.Point26_6{Y: face.Metrics().Ascent}),
	}
	d.DrawString(t.Value)
}
