package pdftools

import (
	"errors"
	"fmt"

	"github.com/alnah/go-pdftools/internal/fileutil"
)

// Sentinel errors for library operations.
var (
	// Destination errors. Outputs are never written over an existing file
	// unless overwrite is requested, and parent directories are never created.
	ErrAlreadyExists = fileutil.ErrAlreadyExists
	ErrParentMissing = fileutil.ErrParentMissing
	ErrInvalidTarget = fileutil.ErrInvalidTarget

	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrConversionFailed  = errors.New("conversion failed")

	// Browser errors, wrapped in ErrConversionFailed by the converter.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Page settings validation errors.
	ErrInvalidPageSize    = fmt.Errorf("%w: page size", ErrInvalidArgument)
	ErrInvalidOrientation = fmt.Errorf("%w: orientation", ErrInvalidArgument)
	ErrInvalidMargin      = fmt.Errorf("%w: margin", ErrInvalidArgument)
)
