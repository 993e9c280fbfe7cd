package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-pdftools/internal/config"
	"github.com/alnah/go-pdftools/internal/office"
)

// errNotReady is returned by doctor when a required check fails.
var errNotReady = errors.New("environment not ready")

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Office   officeInfo `json:"office"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds the lookup result of one external binary.
type toolInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// officeInfo holds LibreOffice toolchain detection results.
type officeInfo struct {
	Soffice    toolInfo `json:"soffice"`
	Unoserver  toolInfo `json:"unoserver"`
	Unoconvert toolInfo `json:"unoconvert"`
	Listener   bool     `json:"listener"` // office.listener or PDFTOOLS_LISTENER
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd handles "doctor". Warnings keep exit code 0; failed checks
// return errNotReady.
func runDoctorCmd(_ context.Context, inv *invocation) error {
	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}

	result := runDoctor(cfg)

	if inv.flags.json {
		enc := json.NewEncoder(inv.env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printDoctorResult(inv.env.Stdout, result)
	}

	if result.Status == "errors" {
		return errNotReady
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: firstNonEmpty(cfg.Browser.Bin, os.Getenv("ROD_BROWSER_BIN")),
		},
	}

	checkOffice(result, cfg)
	checkChrome(result, cfg)
	checkEnvironment(result, cfg)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkOffice looks up the LibreOffice binaries. A missing soffice only
// disables word document conversion, so it is a warning. The listener
// binaries are required once the listener is enabled in config.
func checkOffice(result *doctorResult, cfg *config.Config) {
	lookup := func(bin, def string) toolInfo {
		info := toolInfo{Name: firstNonEmpty(bin, def)}
		if path, err := office.LookPath(info.Name); err == nil {
			info.Found, info.Path = true, path
		}
		return info
	}

	o := &result.Office
	o.Soffice = lookup(cfg.Office.Soffice, office.DefaultSofficeBin)
	o.Unoserver = lookup(cfg.Office.Unoserver, office.DefaultUnoserverBin)
	o.Unoconvert = lookup(cfg.Office.Unoconvert, office.DefaultUnoconvertBin)
	o.Listener = cfg.Office.Listener

	if !o.Soffice.Found {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not found: word documents cannot be converted. Install LibreOffice", o.Soffice.Name))
	}
	for _, tool := range []toolInfo{o.Unoserver, o.Unoconvert} {
		if tool.Found {
			continue
		}
		if o.Listener {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s not found but office.listener is enabled. Install unoserver", tool.Name))
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s not found: --listener is unavailable", tool.Name))
		}
	}
}

// checkChrome detects Chrome/Chromium installation. Chrome is only needed
// for HTML and Markdown inputs, so a miss is a warning.
func checkChrome(result *doctorResult, cfg *config.Config) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: HTML and Markdown need Chrome. Install it or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from config or PATH lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1" && !cfg.Browser.NoSandbox
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *config.Config) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && !cfg.Browser.NoSandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 or browser.noSandbox")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("PDFTOOLS_CONTAINER") == "1" {
		return true, "PDFTOOLS_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for intermediate HTML.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	result.System.TempDir = tmpDir

	f, err := os.CreateTemp(tmpDir, "pdftools-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdftools doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LibreOffice")
	for _, tool := range []toolInfo{r.Office.Soffice, r.Office.Unoserver, r.Office.Unoconvert} {
		if tool.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", tool.Name, tool.Path)
		} else {
			fmt.Fprintf(w, "  [--] %s: not found\n", tool.Name)
		}
	}
	if r.Office.Listener {
		fmt.Fprintln(w, "  [OK] Listener: enabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: writable (%s)\n", r.System.TempDir)
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
