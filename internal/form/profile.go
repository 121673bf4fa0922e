// Package form holds the fixed geometry and labels of the registration form.
package form

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/joseph-ayodele/regform/internal/common"
)

// Profile describes where and what to write on the form.
type Profile struct {
	IdentifierPattern string `json:"identifier_pattern"`
	AnchorAPattern    string `json:"anchor_a_pattern"`
	AnchorBPattern    string `json:"anchor_b_pattern"`

	OwnerCode string `json:"owner_code"`

	// Font sizing: grow from FontStartSize by FontGrowth until ReferenceText is
	// wider than WidthFactor times the anchor A label width.
	ReferenceText string  `json:"reference_text"`
	FontStartSize float64 `json:"font_start_size"`
	FontGrowth    float64 `json:"font_growth"`
	WidthFactor   float64 `json:"width_factor"`

	// Horizontal offsets past the anchors' right edge, in label widths.
	ApprovalOffset float64 `json:"approval_offset"`
	OwnerOffset    float64 `json:"owner_offset"`
}

// Default is the Swiss registration form layout.
func Default() Profile {
	return Profile{
		IdentifierPattern: `(?:^|\s)\d{3}\.\d{3}\.\d{3}(?:\s|$)`,
		AnchorAPattern:    `Typengenehmigung(?:\s|$)`,
		AnchorBPattern:    `Code du titulaire`,
		OwnerCode:         "8236",
		ReferenceText:     "TESTTEST",
		FontStartSize:     50,
		FontGrowth:        1.05,
		WidthFactor:       1.5,
		ApprovalOffset:    0.5,
		OwnerOffset:       0.75,
	}
}

// Load returns Default overlaid with the JSON document at path.
// An empty path yields Default.
func Load(path string) (Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, common.NewAppError(common.CodeProfile, "read profile", err)
	}
	if err := ValidateJSONAgainstSchema(BuildProfileJSONSchema(), data); err != nil {
		return Profile{}, common.NewAppError(common.CodeProfile, path, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, common.NewAppError(common.CodeProfile, "decode profile", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks that every pattern compiles.
func (p Profile) Validate() error {
	for name, pat := range map[string]string{
		"identifier_pattern": p.IdentifierPattern,
		"anchor_a_pattern":   p.AnchorAPattern,
		"anchor_b_pattern":   p.AnchorBPattern,
	} {
		if _, err := regexp.Compile(pat); err != nil {
			return common.NewAppError(common.CodeProfile, name, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		}
	}
	return nil
}
