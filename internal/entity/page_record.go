package entity

// Display strings for absent page fields.
const (
	NoIdentifier   = "000.000.000"
	NoApprovalCode = "UNKNOWN"
)

// Field names reported by PageRecord.Missing.
const (
	FieldIdentifier   = "identifier"
	FieldApprovalCode = "approval_code"
	FieldAnchorA      = "anchor_a"
	FieldAnchorB      = "anchor_b"
)

// PageRecord is the analysis result of one page. A nil field was not found.
type PageRecord struct {
	Page         int     `json:"page"`
	Identifier   *string `json:"identifier,omitempty"`
	ApprovalCode *string `json:"approval_code,omitempty"`
	AnchorA      *Quad   `json:"anchor_a,omitempty"`
	AnchorB      *Quad   `json:"anchor_b,omitempty"`
}

// IdentifierOrDefault returns the identifier or NoIdentifier.
func (r PageRecord) IdentifierOrDefault() string {
	if r.Identifier == nil {
		return NoIdentifier
	}
	return *r.Identifier
}

// ApprovalOrDefault returns the approval code or NoApprovalCode.
func (r PageRecord) ApprovalOrDefault() string {
	if r.ApprovalCode == nil {
		return NoApprovalCode
	}
	return *r.ApprovalCode
}

// Missing lists the fields the renderer needs but the page lacks.
// An absent identifier always implies an absent approval code, so only the latter is reported.
func (r PageRecord) Missing() []string {
	var out []string
	if r.ApprovalCode == nil {
		if r.Identifier == nil {
			out = append(out, FieldIdentifier)
		}
		out = append(out, FieldApprovalCode)
	}
	if r.AnchorA == nil {
		out = append(out, FieldAnchorA)
	}
	if r.AnchorB == nil {
		out = append(out, FieldAnchorB)
	}
	return out
}

// Valid reports whether the page can be rendered.
func (r PageRecord) Valid() bool {
	return r.ApprovalCode != nil && r.AnchorA != nil && r.AnchorB != nil
}
