package ocr

import (
	"image"
	"strings"

	"github.com/joseph-ayodele/regform/internal/entity"
)

// MergeGap is the largest horizontal gap, in word heights, between two words
// of one line that still belong to the same phrase.
const MergeGap = 0.5

// Word is one recognised word with its line coordinates.
type Word struct {
	Box        image.Rectangle
	Text       string
	Confidence float64 // 0..1
	Block      int
	Par        int
	Line       int
}

func (w Word) sameLine(o Word) bool {
	return w.Block == o.Block && w.Par == o.Par && w.Line == o.Line
}

// GroupWords merges neighbouring words of a line into phrase detections, so
// multi-word labels come back as one box. Words must be in reading order.
func GroupWords(words []Word) []entity.Detection {
	var (
		out   []entity.Detection
		cur   []Word
		box   image.Rectangle
		flush = func() {
			if len(cur) == 0 {
				return
			}
			texts := make([]string, len(cur))
			var conf float64
			for i, w := range cur {
				texts[i] = w.Text
				conf += w.Confidence
			}
			out = append(out, entity.Detection{
				Box:        entity.QuadFromRect(box),
				Text:       strings.Join(texts, " "),
				Confidence: conf / float64(len(cur)),
			})
			cur = cur[:0]
		}
	)

	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}
		if len(cur) > 0 {
			last := cur[len(cur)-1]
			h := max(last.Box.Dy(), w.Box.Dy())
			gap := w.Box.Min.X - last.Box.Max.X
			if !last.sameLine(w) || gap < 0 || float64(gap) > MergeGap*float64(h) {
				flush()
			}
		}
		if len(cur) == 0 {
			box = w.Box
		} else {
			box = box.Union(w.Box)
		}
		cur = append(cur, w)
	}
	flush()
	return out
}
