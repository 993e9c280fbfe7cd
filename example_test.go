package pdftools_test

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-pdftools"
)

// Example_bundle reads a JSON file list with bookmark labels.
func Example_bundle() {
	bundle := `[
  {"path": "intro.docx", "bookmarkName": "Introduction"},
  {"path": "figures/chart.png"},
  {"path_str": "annex.pdf", "bookmark_name": "Annex"}
]`

	files, err := pdftools.ReadFiles(strings.NewReader(bundle))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, f := range files {
		fmt.Printf("%s -> %s\n", f.Path, f.BookmarkTitle())
	}
	// Output:
	// intro.docx -> Introduction
	// figures/chart.png -> chart.png
	// annex.pdf -> Annex
}

// ExampleFiles_WriteJSON writes a bundle that ReadFiles accepts.
func ExampleFiles_WriteJSON() {
	files := pdftools.FilesFromPaths([]string{"a.md", "b.pdf"})
	files[0].BookmarkName = "Chapter 1"

	if err := files.WriteJSON(os.Stdout); err != nil {
		fmt.Println("error:", err)
	}
	// Output:
	// [
	//   {
	//     "path": "a.md",
	//     "bookmarkName": "Chapter 1"
	//   },
	//   {
	//     "path": "b.pdf"
	//   }
	// ]
}

// ExampleParseColor shows the accepted colour notations.
func ExampleParseColor() {
	for _, s := range []string{"#FF0000", "0f0", "0, 0, 1", "0.5 0.5 0.5"} {
		c, err := pdftools.ParseColor(s)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("%-12q %s\n", s, c.Hex())
	}
	// Output:
	// "#FF0000"    #FF0000
	// "0f0"        #00FF00
	// "0, 0, 1"    #0000FF
	// "0.5 0.5 0.5" #808080
}

// ExampleWatermarkOptions_Validate shows how invalid options are reported.
func ExampleWatermarkOptions_Validate() {
	opts := pdftools.DefaultWatermarkOptions("DRAFT")
	opts.Opacity = 1.5

	err := opts.Validate()
	fmt.Println(errors.Is(err, pdftools.ErrInvalidArgument))
	fmt.Println(err)
	// Output:
	// true
	// invalid argument: opacity must be between 0 and 1, got 1.5
}
