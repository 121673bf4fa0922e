// Package lookup maps vehicle identifiers (Stammnummer) to approval codes (Typengenehmigung).
package lookup

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/table"
)

// Columns names the header cells holding the identifier and the approval code.
type Columns struct {
	Key   string
	Value string
}

// Entry is one identifier -> approval code pair, in file order.
type Entry struct {
	Identifier   string
	ApprovalCode string
}

// Table is immutable once loaded.
type Table struct {
	entries []Entry
	index   map[string]int
}

// Normalize strips every whitespace rune from an identifier.
func Normalize(id string) string {
	return strings.Join(strings.Fields(id), "")
}

// New builds a table from entries. Rows without an identifier are skipped;
// duplicate identifiers and identifiers without an approval code are rejected.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := Normalize(e.Identifier)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; dup {
			return nil, common.NewAppError(common.CodeTable, fmt.Sprintf("duplicate identifier %q", key), common.ErrInvalidInput)
		}
		code := strings.TrimSpace(e.ApprovalCode)
		if code == "" {
			return nil, common.NewAppError(common.CodeTable, fmt.Sprintf("identifier %q has no approval code", key), common.ErrInvalidInput)
		}
		t.index[key] = len(t.entries)
		t.entries = append(t.entries, Entry{Identifier: key, ApprovalCode: code})
	}
	return t, nil
}

// Load reads the table file at path (CSV or XLSX).
func Load(path string, cols Columns, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := table.Read(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeTable, "read lookup table", err)
	}
	keyIdx, valIdx := raw.Column(cols.Key), raw.Column(cols.Value)
	if keyIdx < 0 || valIdx < 0 {
		return nil, common.NewAppError(common.CodeTable,
			fmt.Sprintf("%s: need columns %q and %q, have %q", path, cols.Key, cols.Value, raw.Header),
			common.ErrInvalidInput)
	}

	entries := make([]Entry, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		entries = append(entries, Entry{Identifier: row[keyIdx], ApprovalCode: row[valIdx]})
	}
	t, err := New(entries)
	if err != nil {
		return nil, err
	}
	logger.Info("lookup table loaded", "path", path, "entries", t.Len())
	return t, nil
}

// Resolve returns the approval code for id after whitespace normalisation.
func (t *Table) Resolve(id string) (string, bool) {
	i, ok := t.index[Normalize(id)]
	if !ok {
		return "", false
	}
	return t.entries[i].ApprovalCode, true
}

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the pairs in file order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}
