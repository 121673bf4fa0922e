// Package table reads and writes small header-first tables stored as CSV or XLSX.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/regform/constants"
)

// Table is a header row plus data rows. Rows are padded to the header width on read.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of name in the header (case-insensitive, trimmed), or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Read loads the table at path; the format follows the file extension.
func Read(path string) (Table, error) {
	switch constants.MapExtToTableFormat(filepath.Ext(path)) {
	case constants.CSV:
		return readCSV(path)
	case constants.XLSX:
		return readXLSX(path)
	default:
		return Table{}, fmt.Errorf("unsupported table extension: %q", filepath.Ext(path))
	}
}

// Write stores t at path, replacing any previous file atomically.
func Write(path string, t Table) error {
	var (
		data []byte
		err  error
	)
	switch constants.MapExtToTableFormat(filepath.Ext(path)) {
	case constants.CSV:
		data, err = encodeCSV(t)
	case constants.XLSX:
		data, err = encodeXLSX(t)
	default:
		return fmt.Errorf("unsupported table extension: %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func readCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	return fromRecords(records, path)
}

func readXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer func(f *excelize.File) {
		_ = f.Close()
	}(f)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("xlsx %s has no sheets", path)
	}
	// the active sheet is the one a user sees when opening the file
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = sheets[0]
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx %s: %w", path, err)
	}
	return fromRecords(records, path)
}

func fromRecords(records [][]string, path string) (Table, error) {
	if len(records) == 0 {
		return Table{}, fmt.Errorf("table %s is empty", path)
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}, nil
}

func encodeCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func(f *excelize.File) {
		_ = f.Close()
	}(f)

	const sheet = "Sheet1"
	write := func(row int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(1, t.Header); err != nil {
		return nil, err
	}
	for i, r := range t.Rows {
		if err := write(i+2, r); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
