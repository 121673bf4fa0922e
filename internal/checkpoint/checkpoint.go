// Package checkpoint persists the page records of a run so that a failed run
// can be resumed past the last good page.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/regform/internal/common"
	"github.com/joseph-ayodele/regform/internal/entity"
	"github.com/joseph-ayodele/regform/internal/table"
)

// Header is the column layout of a checkpoint file; empty cells are absent fields.
var Header = []string{"page", "id", "tg", "tg_loc", "tg_owner_loc"}

const (
	colPage = iota
	colID
	colTG
	colTGLoc
	colOwnerLoc
)

// Store reads and writes one checkpoint file (CSV or XLSX by extension).
type Store struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored records ordered by page.
// A missing file yields common.ErrNoCheckpoint.
func (s *Store) Load() ([]entity.PageRecord, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewAppError(common.CodeCheckpoint, s.path, common.ErrNoCheckpoint)
		}
		return nil, common.NewAppError(common.CodeCheckpoint, "stat checkpoint", err)
	}
	t, err := table.Read(s.path)
	if err != nil {
		return nil, common.NewAppError(common.CodeCheckpoint, "read checkpoint", err)
	}
	idx := make([]int, len(Header))
	for i, name := range Header {
		if idx[i] = t.Column(name); idx[i] < 0 {
			return nil, common.NewAppError(common.CodeCheckpoint,
				fmt.Sprintf("%s: missing column %q", s.path, name), common.ErrInvalidInput)
		}
	}

	records := make([]entity.PageRecord, 0, len(t.Rows))
	seen := make(map[int]bool, len(t.Rows))
	for n, row := range t.Rows {
		rec, err := decodeRow(row, idx)
		if err != nil {
			return nil, common.NewAppError(common.CodeCheckpoint,
				fmt.Sprintf("%s row %d", s.path, n+2), fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		}
		if seen[rec.Page] {
			return nil, common.NewAppError(common.CodeCheckpoint,
				fmt.Sprintf("%s: page %d recorded twice", s.path, rec.Page), common.ErrInvalidInput)
		}
		seen[rec.Page] = true
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Page < records[j].Page })

	s.logger.Info("checkpoint loaded", "path", s.path, "records", len(records))
	return records, nil
}

// Save replaces the checkpoint with records.
func (s *Store) Save(records []entity.PageRecord) error {
	t := table.Table{Header: Header, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, encodeRow(r))
	}
	if err := table.Write(s.path, t); err != nil {
		return common.NewAppError(common.CodeCheckpoint, "write checkpoint", err)
	}
	s.logger.Debug("checkpoint saved", "path", s.path, "records", len(records))
	return nil
}

// Remove deletes the checkpoint; a missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return common.NewAppError(common.CodeCheckpoint, "remove checkpoint", err)
	}
	return nil
}

func encodeRow(r entity.PageRecord) []string {
	row := make([]string, len(Header))
	row[colPage] = strconv.Itoa(r.Page)
	if r.Identifier != nil {
		row[colID] = *r.Identifier
	}
	if r.ApprovalCode != nil {
		row[colTG] = *r.ApprovalCode
	}
	if r.AnchorA != nil {
		row[colTGLoc] = r.AnchorA.String()
	}
	if r.AnchorB != nil {
		row[colOwnerLoc] = r.AnchorB.String()
	}
	return row
}

func decodeRow(row []string, idx []int) (entity.PageRecord, error) {
	cell := func(col int) string {
		if i := idx[col]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var rec entity.PageRecord
	page, err := strconv.Atoi(cell(colPage))
	if err != nil || page < 1 {
		return rec, fmt.Errorf("bad page number %q", cell(colPage))
	}
	rec.Page = page
	if v := cell(colID); v != "" {
		rec.Identifier = &v
	}
	if v := cell(colTG); v != "" {
		rec.ApprovalCode = &v
	}
	if v := cell(colTGLoc); v != "" {
		q, err := entity.ParseQuad(v)
		if err != nil {
			return rec, err
		}
		rec.AnchorA = &q
	}
	if v := cell(colOwnerLoc); v != "" {
		q, err := entity.ParseQuad(v)
		if err != nil {
			return rec, err
		}
		rec.AnchorB = &q
	}
	return rec, nil
}
