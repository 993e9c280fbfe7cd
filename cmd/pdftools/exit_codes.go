package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-pdftools"
	"github.com/alnah/go-pdftools/internal/config"
	"github.com/alnah/go-pdftools/internal/hints"
	"github.com/alnah/go-pdftools/internal/office"
)

// Exit codes for the pdftools CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Command completed
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid arguments, flags, or config
	ExitIO         = 3 // Missing input, refused or impossible output
	ExitConversion = 4 // Office, browser, or image conversion failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Conversion errors (exit 4)
	if errors.Is(err, pdftools.ErrConversionFailed) ||
		errors.Is(err, pdftools.ErrUnsupportedFormat) ||
		errors.Is(err, pdftools.ErrBrowserConnect) ||
		errors.Is(err, pdftools.ErrPageCreate) ||
		errors.Is(err, pdftools.ErrPageLoad) ||
		errors.Is(err, pdftools.ErrPDFGeneration) ||
		errors.Is(err, office.ErrBinaryNotFound) ||
		errors.Is(err, office.ErrConversion) ||
		errors.Is(err, office.ErrNoOutput) ||
		errors.Is(err, office.ErrListenerTimeout) ||
		errors.Is(err, office.ErrListenerExited) {
		return ExitConversion
	}

	// I/O errors (exit 3)
	if errors.Is(err, pdftools.ErrAlreadyExists) ||
		errors.Is(err, pdftools.ErrParentMissing) ||
		errors.Is(err, pdftools.ErrInvalidTarget) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, pdftools.ErrInvalidArgument) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, pdftools.ErrAlreadyExists):
		return hints.ForAlreadyExists()
	case errors.Is(err, pdftools.ErrParentMissing):
		return hints.ForParentMissing()
	case errors.Is(err, pdftools.ErrInvalidTarget):
		return hints.ForInvalidTarget()
	case errors.Is(err, pdftools.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat()
	case errors.Is(err, office.ErrBinaryNotFound):
		return hints.ForOfficeMissing(err.Error())
	case errors.Is(err, office.ErrListenerTimeout):
		return hints.ForListenerTimeout()
	case errors.Is(err, pdftools.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	}
	return ""
}
