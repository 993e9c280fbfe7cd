package pdftools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Type tags returned by DetectType besides plain extensions.
const (
	TypeDir = "dir"
	TypePDF = "pdf"
)

// inconclusive lists sniffed MIME types that say too little about a document
// to override its extension. Office Open XML is a zip, legacy .doc is an OLE
// container, and Markdown is plain text.
var inconclusive = []string{
	"application/octet-stream",
	"text/plain",
	"application/zip",
	"application/x-ole-storage",
}

// DetectType classifies path into a type tag.
//
// Directories yield "dir". Files are sniffed by content first and the
// extension of the detected MIME type is returned without its dot ("pdf",
// "png", "jpg", "docx", "html", ...). When sniffing is inconclusive or the
// path cannot be read, the lower-cased file extension is used instead. A path
// with neither yields "".
func DetectType(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return TypeDir
	}
	if err == nil {
		if mt, err := mimetype.DetectFile(path); err == nil && !isInconclusive(mt) {
			return strings.TrimPrefix(mt.Extension(), ".")
		}
	}
	return extensionType(path)
}

func isInconclusive(mt *mimetype.MIME) bool {
	if mt.Extension() == "" {
		return true
	}
	for _, m := range inconclusive {
		if mt.Is(m) {
			return true
		}
	}
	return false
}

func extensionType(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsPDFType reports whether t is the PDF tag.
func IsPDFType(t string) bool {
	return t == TypePDF
}

// IsOfficeType reports whether t is a word-processor document handled by
// LibreOffice.
func IsOfficeType(t string) bool {
	switch t {
	case "doc", "docx", "odt", "rtf":
		return true
	}
	return false
}

// IsImageType reports whether t is a raster image. Only PNG and JPEG are
// decoded; the other kinds are routed to the image converter so they fail
// with ErrUnsupportedFormat instead of passing through silently.
func IsImageType(t string) bool {
	switch t {
	case "jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff", "webp":
		return true
	}
	return false
}

// IsHTMLType reports whether t is an HTML page.
func IsHTMLType(t string) bool {
	return t == "html" || t == "htm"
}

// IsMarkdownType reports whether t is a Markdown document.
func IsMarkdownType(t string) bool {
	return t == "md" || t == "markdown"
}
