// Package pipeline turns Markdown into a standalone HTML document ready for
// printing.
//
// Conversion uses goldmark with GFM tables, footnotes and chroma syntax
// highlighting. Relative link and image destinations are resolved against the
// source file's directory so the document renders correctly from any location.
// Raw HTML in the source is kept, minus scripts, frames and event handlers,
// and its img and a destinations are resolved the same way.
//
// PDF rendering is handled separately by the root pdftools package using
// headless Chrome (go-rod).
package pipeline
