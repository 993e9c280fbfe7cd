package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds flags for commands that write converted files.
type outputFlags struct {
	output    string
	overwrite bool
	json      bool
}

// inputFlags holds the alternative to positional paths.
type inputFlags struct {
	jsonFile string
}

// renderFlags holds settings for HTML and Markdown rendering.
type renderFlags struct {
	size        string
	orientation string
	margin      float64
	timeout     string
}

// officeFlags holds LibreOffice toolchain flags.
type officeFlags struct {
	listener bool
}

// mergeFlags holds merge flags.
type mergeFlags struct {
	setBookmarks bool
	overwrite    bool
}

// watermarkFlags holds stamp flags. Unset numeric flags keep the config or
// library default, so presence is checked with FlagSet.Changed.
type watermarkFlags struct {
	text          string
	font          string
	fontSize      float64
	rotation      float64
	opacity       float64
	color         string
	x             float64
	y             float64
	align         string
	firstPageOnly bool
	overwrite     bool
}

// cliFlags holds every flag a command may register.
type cliFlags struct {
	common    commonFlags
	output    outputFlags
	input     inputFlags
	render    renderFlags
	office    officeFlags
	merge     mergeFlags
	workDir   string
	watermark watermarkFlags
	json      bool // doctor
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addOutputFlags adds flags for converted outputs.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags, outputUsage string) {
	fs.StringVarP(&f.output, "output", "o", "", outputUsage)
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace existing output files")
	fs.BoolVar(&f.json, "json", false, "print the converted files as a JSON bundle")
}

// addInputFlags adds the --json-file bundle flag.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.jsonFile, "json-file", "", "read inputs from a JSON bundle")
}

// addRenderFlags adds page and browser flags for HTML and Markdown inputs.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser render timeout (e.g., 30s, 2m)")
}

// addOfficeFlags adds LibreOffice flags.
func addOfficeFlags(fs *flag.FlagSet, f *officeFlags) {
	fs.BoolVar(&f.listener, "listener", false, "run one unoserver for the whole command")
}

// addMergeFlags adds merge flags.
func addMergeFlags(fs *flag.FlagSet, f *mergeFlags) {
	fs.BoolVar(&f.setBookmarks, "set-bookmarks", false, "add one bookmark per source document")
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace an existing output file")
}

// addWatermarkFlags adds stamp flags.
func addWatermarkFlags(fs *flag.FlagSet, f *watermarkFlags) {
	fs.StringVar(&f.text, "text", "", "watermark text (required)")
	fs.StringVar(&f.font, "font", "", "standard PDF font name (default: Helvetica)")
	fs.Float64Var(&f.fontSize, "font-size", 0, "font size in whole points (default: 48)")
	fs.Float64Var(&f.rotation, "rotation", 0, "rotation in degrees, -180 to 180 (default: 45)")
	fs.Float64Var(&f.opacity, "opacity", 0, "opacity 0.0-1.0 (default: 0.15)")
	fs.StringVar(&f.color, "color", "", "colour as hex or r,g,b in 0-1 (default: #FF0000)")
	fs.Float64Var(&f.x, "x", 0, "horizontal centre of the text in points (default: page centre)")
	fs.Float64Var(&f.y, "y", 0, "vertical centre of the text in points (default: page centre)")
	fs.StringVar(&f.align, "align", "", "alignment of multi-line text: left, center, right")
	fs.BoolVar(&f.firstPageOnly, "first-page-only", false, "stamp the first page only")
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace an existing output file")
}

// flag registration per command, shared by parsing and completion.

func convertFileFlags(fs *flag.FlagSet, f *cliFlags) {
	addOutputFlags(fs, &f.output, "output file or directory")
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
}

func convertFilesFlags(fs *flag.FlagSet, f *cliFlags) {
	addOutputFlags(fs, &f.output, "output directory")
	addInputFlags(fs, &f.input)
	addOfficeFlags(fs, &f.office)
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
}

func convertFolderFlags(fs *flag.FlagSet, f *cliFlags) {
	addOutputFlags(fs, &f.output, "output directory")
	addOfficeFlags(fs, &f.office)
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
}

func mergeFilesFlags(fs *flag.FlagSet, f *cliFlags) {
	addInputFlags(fs, &f.input)
	addMergeFlags(fs, &f.merge)
	addCommonFlags(fs, &f.common)
}

func mergeFolderFlags(fs *flag.FlagSet, f *cliFlags) {
	addMergeFlags(fs, &f.merge)
	addCommonFlags(fs, &f.common)
}

func processFlags(fs *flag.FlagSet, f *cliFlags) {
	addInputFlags(fs, &f.input)
	addMergeFlags(fs, &f.merge)
	addOfficeFlags(fs, &f.office)
	fs.StringVar(&f.workDir, "work-dir", "", "directory for intermediate PDFs (default: next to sources)")
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
}

func watermarkAddFlags(fs *flag.FlagSet, f *cliFlags) {
	addWatermarkFlags(fs, &f.watermark)
	addCommonFlags(fs, &f.common)
}

func doctorFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)
}

func configFlags(fs *flag.FlagSet, f *cliFlags) {
	addCommonFlags(fs, &f.common)
}
