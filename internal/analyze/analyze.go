// Package analyze turns the text detections of one page into a PageRecord.
package analyze

import (
	"log/slog"
	"regexp"

	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/form"
	"github.com/joseph-ayodele/regform/internal/lookup"
)

// Resolver maps an identifier to its approval code.
type Resolver interface {
	Resolve(identifier string) (string, bool)
}

type Analyzer struct {
	identifier *regexp.Regexp
	anchorA    *regexp.Regexp
	anchorB    *regexp.Regexp
	resolver   Resolver
	logger     *slog.Logger
}

func New(p form.Profile, resolver Resolver, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		identifier: regexp.MustCompile(p.IdentifierPattern),
		anchorA:    regexp.MustCompile(p.AnchorAPattern),
		anchorB:    regexp.MustCompile(p.AnchorBPattern),
		resolver:   resolver,
		logger:     logger,
	}, nil
}

// Analyze classifies dets in order; for each field the first match wins.
// Missing fields are left nil for the caller to validate.
func (a *Analyzer) Analyze(page int, dets []entity.Detection) entity.PageRecord {
	rec := entity.PageRecord{Page: page}
	for _, d := range dets {
		if rec.Identifier == nil {
			if m := a.identifier.FindString(d.Text); m != "" {
				id := lookup.Normalize(m)
				rec.Identifier = &id
				if code, ok := a.resolver.Resolve(id); ok && code != "" {
					rec.ApprovalCode = &code
				} else {
					a.logger.Warn("identifier not in lookup table", "page", page, "identifier", id)
				}
			}
		}
		if rec.AnchorA == nil && a.anchorA.MatchString(d.Text) {
			box := d.Box
			rec.AnchorA = &box
		}
		if rec.AnchorB == nil && a.anchorB.MatchString(d.Text) {
			box := d.Box
			rec.AnchorB = &box
		}
	}
	return rec
}
