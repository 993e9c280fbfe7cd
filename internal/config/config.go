package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdftools/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength           = 4096 // Binary and directory paths
	MaxHostLength           = 253  // RFC 1035
	MaxDurationLength       = 20   // "1m30s"
	MaxPageSizeLength       = 10   // "letter", "a4", "legal"
	MaxOrientationLength    = 10   // "portrait", "landscape"
	MaxFontNameLength       = 64   // "Helvetica-BoldOblique"
	MaxWatermarkColorLength = 20   // "#FF0000" or "1 0 0"
)

// configDirName is the directory searched under os.UserConfigDir.
const configDirName = "go-pdftools"

// Config holds all configuration for conversions, merges and watermarks.
type Config struct {
	Office    OfficeConfig    `yaml:"office"`
	Browser   BrowserConfig   `yaml:"browser"`
	Page      PageConfig      `yaml:"page"`
	Merge     MergeConfig     `yaml:"merge"`
	Output    OutputConfig    `yaml:"output"`
	Watermark WatermarkConfig `yaml:"watermark"`
}

// OfficeConfig defines the LibreOffice toolchain used for word documents.
type OfficeConfig struct {
	Soffice        string `yaml:"soffice"`        // one-shot converter (default: soffice on PATH)
	Unoserver      string `yaml:"unoserver"`      // listener binary (default: unoserver on PATH)
	Unoconvert     string `yaml:"unoconvert"`     // listener client (default: unoconvert on PATH)
	Host           string `yaml:"host"`           // listener interface (default: 127.0.0.1)
	Port           int    `yaml:"port"`           // listener port (default: 2002)
	Listener       bool   `yaml:"listener"`       // batch commands reuse one listener
	StartupTimeout string `yaml:"startupTimeout"` // e.g. "15s"
	StopTimeout    string `yaml:"stopTimeout"`    // e.g. "10s"
}

// BrowserConfig defines the headless Chrome used for HTML and Markdown.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`     // empty = ROD_BROWSER_BIN or auto-download
	Timeout   string `yaml:"timeout"` // page load + print timeout, e.g. "30s"
	NoSandbox bool   `yaml:"noSandbox"`
}

// PageConfig defines page settings for rendered HTML and Markdown.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// MergeConfig defines merge defaults.
type MergeConfig struct {
	SetBookmarks bool `yaml:"setBookmarks"`
}

// OutputConfig defines output defaults.
type OutputConfig struct {
	Overwrite bool   `yaml:"overwrite"`
	WorkDir   string `yaml:"workDir"` // where convert-and-merge writes intermediate PDFs
}

// WatermarkConfig defines watermark defaults. Zero values fall back to the
// library defaults; Rotation is a pointer because 0 is a meaningful angle.
type WatermarkConfig struct {
	FontName string   `yaml:"fontName"`
	FontSize float64  `yaml:"fontSize"`
	Rotation *float64 `yaml:"rotation"`
	Opacity  float64  `yaml:"opacity"`
	Color    string   `yaml:"color"`
	Align    string   `yaml:"align"` // "left", "center", "right"
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers who build a
// Config by hand.
func (c *Config) Validate() error {
	// Office
	for field, value := range map[string]string{
		"office.soffice":    c.Office.Soffice,
		"office.unoserver":  c.Office.Unoserver,
		"office.unoconvert": c.Office.Unoconvert,
	} {
		if err := validateFieldLength(field, value, MaxPathLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("office.host", c.Office.Host, MaxHostLength); err != nil {
		return err
	}
	if c.Office.Port < 0 || c.Office.Port > 65535 {
		return fmt.Errorf("%w: office.port: must be between 1 and 65535, got %d", ErrInvalidValue, c.Office.Port)
	}
	if err := validateDuration("office.startupTimeout", c.Office.StartupTimeout); err != nil {
		return err
	}
	if err := validateDuration("office.stopTimeout", c.Office.StopTimeout); err != nil {
		return err
	}

	// Browser
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateDuration("browser.timeout", c.Browser.Timeout); err != nil {
		return err
	}

	// Page
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}

	// Output
	if err := validateFieldLength("output.workDir", c.Output.WorkDir, MaxPathLength); err != nil {
		return err
	}

	// Watermark
	if err := validateFieldLength("watermark.fontName", c.Watermark.FontName, MaxFontNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("watermark.color", c.Watermark.Color, MaxWatermarkColorLength); err != nil {
		return err
	}
	if c.Watermark.FontSize < 0 {
		return fmt.Errorf("%w: watermark.fontSize: must be positive, got %.2f", ErrInvalidValue, c.Watermark.FontSize)
	}
	if math.Trunc(c.Watermark.FontSize) != c.Watermark.FontSize {
		return fmt.Errorf("%w: watermark.fontSize: must be a whole number, got %.2f", ErrInvalidValue, c.Watermark.FontSize)
	}
	if r := c.Watermark.Rotation; r != nil && (*r < -180 || *r > 180) {
		return fmt.Errorf("%w: watermark.rotation: must be between -180 and 180, got %.2f", ErrInvalidValue, *r)
	}
	if c.Watermark.Opacity < 0 || c.Watermark.Opacity > 1 {
		return fmt.Errorf("%w: watermark.opacity: must be between 0 and 1, got %.2f", ErrInvalidValue, c.Watermark.Opacity)
	}
	if c.Watermark.Align != "" {
		switch strings.ToLower(c.Watermark.Align) {
		case "left", "center", "right":
			// valid
		default:
			return fmt.Errorf("%w: watermark.align: %q (must be left, center, or right)", ErrInvalidValue, c.Watermark.Align)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration checks that a non-empty duration string parses to a positive value.
func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxDurationLength); err != nil {
		return err
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: %s: %q is not a positive duration", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// Duration parses a validated duration string, returning 0 when unset.
func Duration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// DefaultConfig returns a neutral configuration: every binary looked up on
// PATH, no listener, library defaults everywhere else.
func DefaultConfig() *Config {
	return &Config{
		Office:    OfficeConfig{Listener: false},
		Browser:   BrowserConfig{},
		Page:      PageConfig{},
		Merge:     MergeConfig{SetBookmarks: false},
		Output:    OutputConfig{Overwrite: false},
		Watermark: WatermarkConfig{},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory first, then ~/.config/go-pdftools/, each with
// .yaml then .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
