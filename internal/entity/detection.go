package entity

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

// Point is a pixel coordinate on a page raster.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Quad is a detected text outline: top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// QuadFromRect builds the axis-aligned Quad of r.
func QuadFromRect(r image.Rectangle) Quad {
	return Quad{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

func (q Quad) TopLeft() Point     { return q[0] }
func (q Quad) TopRight() Point    { return q[1] }
func (q Quad) BottomRight() Point { return q[2] }
func (q Quad) BottomLeft() Point  { return q[3] }

// Width is the horizontal distance between the two top corners.
func (q Quad) Width() int { return q[1].X - q[0].X }

// String renders q as "(x,y),(x,y),(x,y),(x,y)".
func (q Quad) String() string {
	parts := make([]string, len(q))
	for i, p := range q {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, ",")
}

var reQuadPoint = regexp.MustCompile(`\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)`)

// ParseQuad is the inverse of Quad.String.
func ParseQuad(s string) (Quad, error) {
	ms := reQuadPoint.FindAllStringSubmatch(s, -1)
	if len(ms) != 4 {
		return Quad{}, fmt.Errorf("quad %q: want 4 points, got %d", s, len(ms))
	}
	var q Quad
	for i, m := range ms {
		x, err := strconv.Atoi(m[1])
		if err != nil {
			return Quad{}, fmt.Errorf("quad %q: %w", s, err)
		}
		y, err := strconv.Atoi(m[2])
		if err != nil {
			return Quad{}, fmt.Errorf("quad %q: %w", s, err)
		}
		q[i] = Point{X: x, Y: y}
	}
	return q, nil
}

// Detection is one text region reported by the text detector.
type Detection struct {
	Box        Quad    `json:"box"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
