package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-pdftools/internal/config"
)

// envPrefix is the prefix of every recognised environment variable.
const envPrefix = "PDFTOOLS_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // PDFTOOLS_CONFIG: config file name or path
	Timeout    time.Duration // PDFTOOLS_TIMEOUT: browser render timeout
	Overwrite  bool          // PDFTOOLS_OVERWRITE: replace existing outputs

	// Tier 2 - Toolchain
	Soffice    string // PDFTOOLS_SOFFICE: soffice binary
	Unoserver  string // PDFTOOLS_UNOSERVER: unoserver binary
	Unoconvert string // PDFTOOLS_UNOCONVERT: unoconvert binary
	OfficePort int    // PDFTOOLS_OFFICE_PORT: listener port
	Listener   bool   // PDFTOOLS_LISTENER: reuse one office listener
	BrowserBin string // PDFTOOLS_BROWSER_BIN: Chrome binary

	// Tier 3 - Extended
	PageSize       string // PDFTOOLS_PAGE_SIZE: letter, a4, legal
	WorkDir        string // PDFTOOLS_WORK_DIR: intermediate PDFs of process
	WatermarkColor string // PDFTOOLS_WATERMARK_COLOR: default stamp colour
}

// knownEnvVars lists valid PDFTOOLS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"PDFTOOLS_CONFIG":    true,
	"PDFTOOLS_TIMEOUT":   true,
	"PDFTOOLS_OVERWRITE": true,
	// Tier 2 - Toolchain
	"PDFTOOLS_SOFFICE":     true,
	"PDFTOOLS_UNOSERVER":   true,
	"PDFTOOLS_UNOCONVERT":  true,
	"PDFTOOLS_OFFICE_PORT": true,
	"PDFTOOLS_LISTENER":    true,
	"PDFTOOLS_BROWSER_BIN": true,
	// Tier 3 - Extended
	"PDFTOOLS_PAGE_SIZE":       true,
	"PDFTOOLS_WORK_DIR":        true,
	"PDFTOOLS_WATERMARK_COLOR": true,
	// Read by doctor only
	"PDFTOOLS_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers, durations and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("PDFTOOLS_CONFIG"),
		Soffice:        os.Getenv("PDFTOOLS_SOFFICE"),
		Unoserver:      os.Getenv("PDFTOOLS_UNOSERVER"),
		Unoconvert:     os.Getenv("PDFTOOLS_UNOCONVERT"),
		BrowserBin:     os.Getenv("PDFTOOLS_BROWSER_BIN"),
		PageSize:       os.Getenv("PDFTOOLS_PAGE_SIZE"),
		WorkDir:        os.Getenv("PDFTOOLS_WORK_DIR"),
		WatermarkColor: os.Getenv("PDFTOOLS_WATERMARK_COLOR"),
		Overwrite:      envBool("PDFTOOLS_OVERWRITE"),
		Listener:       envBool("PDFTOOLS_LISTENER"),
	}

	if timeout := os.Getenv("PDFTOOLS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if port := os.Getenv("PDFTOOLS_OFFICE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			cfg.OfficePort = p
		}
	}

	return cfg
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

// warnUnknownEnvVars logs warnings for unrecognized PDFTOOLS_* variables.
// Helps catch typos like PDFTOOLS_OVERWITE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if env.Timeout > 0 && cfg.Browser.Timeout == "" {
		cfg.Browser.Timeout = env.Timeout.String()
	}
	if env.Overwrite {
		cfg.Output.Overwrite = true
	}

	// Tier 2 - Toolchain
	if env.Soffice != "" && cfg.Office.Soffice == "" {
		cfg.Office.Soffice = env.Soffice
	}
	if env.Unoserver != "" && cfg.Office.Unoserver == "" {
		cfg.Office.Unoserver = env.Unoserver
	}
	if env.Unoconvert != "" && cfg.Office.Unoconvert == "" {
		cfg.Office.Unoconvert = env.Unoconvert
	}
	if env.OfficePort != 0 && cfg.Office.Port == 0 {
		cfg.Office.Port = env.OfficePort
	}
	if env.Listener {
		cfg.Office.Listener = true
	}
	if env.BrowserBin != "" && cfg.Browser.Bin == "" {
		cfg.Browser.Bin = env.BrowserBin
	}

	// Tier 3
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.WorkDir != "" && cfg.Output.WorkDir == "" {
		cfg.Output.WorkDir = env.WorkDir
	}
	if env.WatermarkColor != "" && cfg.Watermark.Color == "" {
		cfg.Watermark.Color = env.WatermarkColor
	}
}
