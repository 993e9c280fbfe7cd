// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-pdftools/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for large documents, use --timeout or browser.timeout")
}

// ForOfficeMissing returns a hint for a missing LibreOffice toolchain binary.
func ForOfficeMissing(bin string) string {
	if strings.Contains(bin, "uno") {
		return format("install unoserver (pip install unoserver) or drop --listener")
	}
	return format("install LibreOffice or set office.soffice in the config file")
}

// ForListenerTimeout returns a hint for a listener that never became ready.
func ForListenerTimeout() string {
	return format("check that the port is free, or raise office.startupTimeout")
}

// ForAlreadyExists returns the hint for refused overwrites.
func ForAlreadyExists() string {
	return format("use --overwrite to replace it, or choose another output path")
}

// ForParentMissing returns the hint for a missing output directory.
func ForParentMissing() string {
	return format("create the output directory first; it is never created automatically")
}

// ForInvalidTarget returns the hint for an output path that is a directory.
func ForInvalidTarget() string {
	return format("pass a file path such as out/merged.pdf")
}

// ForUnsupportedFormat returns the hint for images that cannot be decoded.
func ForUnsupportedFormat() string {
	return format("supported images: PNG, JPEG")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-pdftools/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-pdftools") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
