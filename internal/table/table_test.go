package table

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSVPadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.csv")
	data := "\ufeffSN,TG,Note\n123.456.789,TG01\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tbl.Column("sn") != 0 || tbl.Column(" TG ") != 1 || tbl.Column("missing") != -1 {
		t.Fatalf("unexpected column lookup for header %q", tbl.Header)
	}
	want := [][]string{{"123.456.789", "TG01", ""}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Fatalf("rows = %q, want %q", tbl.Rows, want)
	}
}

func TestReadXLSXUsesActiveSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.xlsx")
	f := excelize.NewFile()
	idx, err := f.NewSheet("Codes")
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	f.SetActiveSheet(idx)
	_ = f.SetCellValue("Codes", "A1", "SN")
	_ = f.SetCellValue("Codes", "B1", "TG")
	_ = f.SetCellValue("Codes", "A2", "111.222.333")
	_ = f.SetCellValue("Codes", "B2", "1AB123")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	_ = f.Close()

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0] != "111.222.333" || tbl.Rows[0][1] != "1AB123" {
		t.Fatalf("unexpected rows: %q", tbl.Rows)
	}
}

func TestWriteReplacesFile(t *testing.T) {
	for _, name := range []string{"out.csv", "out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			first := Table{Header: []string{"page", "id"}, Rows: [][]string{{"1", "a"}, {"2", "b"}}}
			if err := Write(path, first); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			second := Table{Header: []string{"page", "id"}, Rows: [][]string{{"1", "a"}}}
			if err := Write(path, second); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, second) {
				t.Fatalf("got %+v, want %+v", got, second)
			}
			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Fatalf("temp files left behind: %d entries", len(entries))
			}
		})
	}
}

func TestUnsupportedExtension(t *testing.T) {
	if _, err := Read("codes.txt"); err == nil {
		t.Fatalf("expected error for .txt")
	}
	if err := Write(filepath.Join(t.TempDir(), "codes.json"), Table{}); err == nil {
		t.Fatalf("expected error for .json")
	}
}
