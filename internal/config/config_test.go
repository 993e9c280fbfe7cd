package config

// Notes:
// - Tests that change the working directory do not run in parallel.
// - The user config directory lookup is covered through SearchPaths only;
//   writing into the real ~/.config is out of bounds for tests.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestDefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Office.Listener {
		t.Error("Office.Listener = true, want false")
	}
	if cfg.Merge.SetBookmarks {
		t.Error("Merge.SetBookmarks = true, want false")
	}
	if cfg.Output.Overwrite {
		t.Error("Output.Overwrite = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateFieldLength
// ---------------------------------------------------------------------------

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	rotation := 30.0
	outOfRange := 270.0

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid config passes validation",
			cfg: Config{
				Office:    OfficeConfig{Host: "127.0.0.1", Port: 2002, StartupTimeout: "15s", StopTimeout: "10s"},
				Browser:   BrowserConfig{Timeout: "45s"},
				Page:      PageConfig{Size: "a4", Orientation: "landscape", Margin: 1},
				Watermark: WatermarkConfig{FontSize: 60, Rotation: &rotation, Opacity: 0.3, Color: "#00F", Align: "left"},
			},
		},
		{
			name:    "port out of range",
			cfg:     Config{Office: OfficeConfig{Port: 70000}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "malformed startup timeout",
			cfg:     Config{Office: OfficeConfig{StartupTimeout: "soon"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative stop timeout",
			cfg:     Config{Office: OfficeConfig{StopTimeout: "-1s"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "browser timeout too long",
			cfg:     Config{Browser: BrowserConfig{Timeout: strings.Repeat("1", MaxDurationLength+1) + "s"}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "office binary path too long",
			cfg:     Config{Office: OfficeConfig{Soffice: strings.Repeat("a", MaxPathLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "opacity above 1",
			cfg:     Config{Watermark: WatermarkConfig{Opacity: 1.5}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative font size",
			cfg:     Config{Watermark: WatermarkConfig{FontSize: -2}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "fractional font size",
			cfg:     Config{Watermark: WatermarkConfig{FontSize: 12.5}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "rotation beyond half turn",
			cfg:     Config{Watermark: WatermarkConfig{Rotation: &outOfRange}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown alignment",
			cfg:     Config{Watermark: WatermarkConfig{Align: "justify"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "page size too long",
			cfg:     Config{Page: PageConfig{Size: "tabloid-extra"}},
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	if got := Duration("1m30s"); got != 90*time.Second {
		t.Errorf("Duration(1m30s) = %s, want 1m30s", got)
	}
	if got := Duration(""); got != 0 {
		t.Errorf("Duration(\"\") = %s, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "pdftools.yaml", `office:
  listener: true
  port: 2010
  startupTimeout: 20s
merge:
  setBookmarks: true
watermark:
  color: "#00FF00"
  rotation: 0
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Office.Listener {
			t.Error("Office.Listener = false, want true")
		}
		if cfg.Office.Port != 2010 {
			t.Errorf("Office.Port = %d, want 2010", cfg.Office.Port)
		}
		if Duration(cfg.Office.StartupTimeout) != 20*time.Second {
			t.Errorf("Office.StartupTimeout = %q, want 20s", cfg.Office.StartupTimeout)
		}
		if !cfg.Merge.SetBookmarks {
			t.Error("Merge.SetBookmarks = false, want true")
		}
		if cfg.Watermark.Rotation == nil || *cfg.Watermark.Rotation != 0 {
			t.Errorf("Watermark.Rotation = %v, want explicit 0", cfg.Watermark.Rotation)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "invalid.yaml", "office: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "empty.yaml", "")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "unknown.yaml", "merge:\n  setBookmarks: true\nunknownField: x\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value surfaces validation error", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "bad.yaml", "watermark:\n  opacity: 3\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yml", "output:\n  overwrite: true\n")

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Output.Overwrite {
			t.Error("Output.Overwrite = false, want true")
		}
	})

	t.Run("unknown config name lists searched paths", func(t *testing.T) {
		_, err := LoadConfig("pdftools-definitely-missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "pdftools-definitely-missing.yaml") {
			t.Errorf("error should list searched paths, got %q", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestSearchPaths / TestMarshal
// ---------------------------------------------------------------------------

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local candidates = %v, want [work.yaml work.yml]", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, configDirName) {
			t.Errorf("user path %q should live under %s", p, configDirName)
		}
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Office.Port = 2004
	cfg.Merge.SetBookmarks = true

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	path := writeConfig(t, t.TempDir(), "rt.yaml", string(data))
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v\n%s", err, data)
	}
	if got.Office.Port != 2004 || !got.Merge.SetBookmarks {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestDecodeStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := make([]byte, MaxInputSize+1)
	err := decodeStrict(data, DefaultConfig())
	if !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}
