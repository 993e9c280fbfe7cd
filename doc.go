// Package pdftools converts documents to PDF, merges PDFs with optional
// bookmarks, and stamps text watermarks on PDF pages.
//
// # Quick Start
//
// Convert a few files, merge them, and close the converter when done:
//
//	conv, err := pdftools.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	files := pdftools.FilesFromPaths([]string{"report.docx", "photo.jpg", "appendix.pdf"})
//	proc := pdftools.NewProcessor(conv, pdftools.NewMerger())
//
//	out, err := proc.ConvertAndMerge(ctx, files, "bundle.pdf", pdftools.ProcessOptions{
//	    SetBookmarks: true,
//	})
//
// # Files
//
// A File is a path plus an optional bookmark label. Its type is detected from
// content first (magic bytes) and from the extension only when sniffing is
// inconclusive, so a PDF named scan.bin is still merged as a PDF.
// Files serialises to a JSON bundle ([{"path": "...", "bookmarkName": "..."}])
// that the command line reads with --json-file.
//
// # Conversion
//
// Converter.ConvertToPDF dispatches on the detected type:
//
//   - doc, docx, odt, rtf: LibreOffice, one soffice process per document, or
//     a running unoserver listener via WithOfficeConverter
//   - png, jpeg: a single page the size of the image, transparency flattened
//     onto white
//   - html, md: printed by headless Chrome (go-rod) with PageSettings
//
// Other types are returned unchanged. Outputs are never written over an
// existing file without Overwrite, parent directories are never created, and
// every output is written to a temporary sibling and renamed into place.
//
// # Merging
//
// Merger.Merge concatenates PDFs in order. Non-PDF inputs are skipped with a
// warning on the configured logger. With SetBookmarks each source gets one
// top-level bookmark at its first page.
//
// # Watermarks
//
//	opts := pdftools.DefaultWatermarkOptions("DRAFT")
//	opts.Color, _ = pdftools.ParseColor("#888")
//	res, err := pdftools.NewWatermarker().AddTextWatermark(ctx,
//	    pdftools.NewFile("in.pdf"), pdftools.NewFile("out.pdf"), opts, false)
//	fmt.Println(res.Message())
//
// # Errors
//
// Failures wrap the sentinel errors declared in this package (ErrAlreadyExists,
// ErrParentMissing, ErrInvalidTarget, ErrInvalidArgument, ErrUnsupportedFormat,
// ErrConversionFailed) and can be tested with errors.Is.
//
// # Browser Requirements
//
// HTML and Markdown conversion requires Chrome/Chromium. The go-rod library
// downloads a managed Chromium on first use unless ROD_BROWSER_BIN or
// WithBrowserBin points at an installed one. Containers usually need
// WithNoSandbox(true) or ROD_NO_SANDBOX=1.
package pdftools
