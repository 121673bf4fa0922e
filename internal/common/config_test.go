package common

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.Table.Path != "carcodes.csv" || cfg.Table.KeyColumn != "SN" || cfg.Table.ValueColumn != "TG" {
		t.Fatalf("unexpected table defaults: %+v", cfg.Table)
	}
	if cfg.OCR.DPI != 800 {
		t.Fatalf("expected default dpi 800, got %d", cfg.OCR.DPI)
	}
	if cfg.OCR.TesseractLang != "deu" {
		t.Fatalf("expected deu, got %q", cfg.OCR.TesseractLang)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REGFORM_TABLE", "codes.xlsx")
	t.Setenv("PDF_DPI", "300")
	t.Setenv("OCR_ENGINE", EngineGosseract)
	cfg := LoadConfig()
	if cfg.Table.Path != "codes.xlsx" || cfg.OCR.DPI != 300 || cfg.OCR.Engine != EngineGosseract {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.Table.Path = "codes.txt"
	cfg.OCR.Engine = "easyocr"
	cfg.OCR.DPI = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	for _, field := range []string{"REGFORM_TABLE", "OCR_ENGINE", "PDF_DPI"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q does not mention %s", err, field)
		}
	}
}

func TestPageErrorUnwrapsToValidation(t *testing.T) {
	err := error(&PageError{Page: 2, Identifier: "999.999.999", Missing: []string{"approval_code"}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("PageError should unwrap to ErrValidation")
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Fatalf("message should name the page: %q", err)
	}
}
