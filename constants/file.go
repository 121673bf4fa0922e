package constants

import "strings"

// TableFormat is the on-disk format of a tabular file (lookup table, checkpoint).
type TableFormat string

const (
	CSV  TableFormat = "CSV"
	XLSX TableFormat = "XLSX"
)

// TableExtensions maps the accepted tabular file extensions to their format.
var TableExtensions = map[string]TableFormat{
	"csv":  CSV,
	"xlsx": XLSX,
}

// Page artifact names inside the work directory.
const (
	ScanArtifactPattern  = "scan-%03d.jpg"
	MaskArtifactPattern  = "mask-%03d.png"
	DebugArtifactPattern = "debug-%03d.jpg"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToTableFormat returns the table format for ext, or "" when unsupported.
func MapExtToTableFormat(ext string) TableFormat {
	return TableExtensions[NormalizeExt(ext)]
}
