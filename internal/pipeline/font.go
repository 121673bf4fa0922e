package pipeline

import (
	"image"

	"golang.org/x/image/font/opentype"

	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/form"
	"github.com/joseph-ayodele/regform/internal/render"
)

// fontSlot is empty until the first valid page fills it; it never changes after.
type fontSlot struct {
	font    *render.Font
	size    image.Point // canonical page size
	justSet bool
}

func (s *fontSlot) init(tt *opentype.Font, rec entity.PageRecord, pageSize image.Point, p form.Profile) error {
	s.justSet = false
	if s.font != nil {
		return nil
	}
	f, err := render.SizeFont(tt, float64(rec.AnchorA.Width()), p)
	if err != nil {
		return err
	}
	s.font, s.size, s.justSet = &f, pageSize, true
	return nil
}
