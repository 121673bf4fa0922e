package common

import (
	"os"
	"strconv"
)

// OCR engines selectable through OCR_ENGINE.
const (
	EngineTesseractCLI = "tesseract"
	EngineGosseract    = "gosseract"
)

// Config holds all application configuration
type Config struct {
	Table  TableConfig
	OCR    OCRConfig
	Render RenderConfig
	Run    RunConfig
}

// TableConfig locates the identifier -> approval code table
type TableConfig struct {
	Path        string
	KeyColumn   string
	ValueColumn string
}

// OCRConfig holds rasterization and text detection configuration
type OCRConfig struct {
	Engine        string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	PSM           int
	DPI           int
}

// RenderConfig holds overlay rendering configuration
type RenderConfig struct {
	FontPath    string
	ProfilePath string
	Viewer      string
}

// RunConfig holds per-run file locations
type RunConfig struct {
	CheckpointPath string
	WorkDir        string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Table: TableConfig{
			Path:        getEnv("REGFORM_TABLE", "carcodes.csv"),
			KeyColumn:   getEnv("REGFORM_TABLE_KEY", "SN"),
			ValueColumn: getEnv("REGFORM_TABLE_VALUE", "TG"),
		},
		OCR: OCRConfig{
			Engine:        getEnv("OCR_ENGINE", EngineTesseractCLI),
			Pdftoppm:      getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "deu"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("OCR_PSM", 0),
			DPI:           getEnvAsInt("PDF_DPI", 800),
		},
		Render: RenderConfig{
			FontPath:    getEnv("REGFORM_FONT", ""),
			ProfilePath: getEnv("REGFORM_PROFILE", ""),
			Viewer:      getEnv("REGFORM_VIEWER", ""),
		},
		Run: RunConfig{
			CheckpointPath: getEnv("REGFORM_CHECKPOINT", "checkpoint.csv"),
			WorkDir:        getEnv("REGFORM_WORK_DIR", "./tmp"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("REGFORM_TABLE", c.Table.Path, Required, TableFile)
	v.Field("REGFORM_TABLE_KEY", c.Table.KeyColumn, Required)
	v.Field("REGFORM_TABLE_VALUE", c.Table.ValueColumn, Required)
	v.Field("REGFORM_CHECKPOINT", c.Run.CheckpointPath, Required, TableFile)
	v.Field("REGFORM_WORK_DIR", c.Run.WorkDir, Required)
	v.Field("OCR_ENGINE", c.OCR.Engine, OneOf(EngineTesseractCLI, EngineGosseract))
	v.Field("TESSERACT_LANG", c.OCR.TesseractLang, Required)
	v.Field("PDF_DPI", c.OCR.DPI, Positive)
	return ValidateAndReturnError(v)
}
