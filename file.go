package pdftools

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File names a filesystem path plus an optional bookmark label.
// The path does not need to exist. Derived attributes are computed on demand,
// so a File is a plain value: conversions return new Files instead of
// modifying their input.
type File struct {
	Path         string `json:"path"`
	BookmarkName string `json:"bookmarkName,omitempty"`
}

// NewFile returns a File for path.
func NewFile(path string) File {
	return File{Path: path}
}

// AbsolutePath returns the cleaned absolute form of Path.
func (f File) AbsolutePath() string {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return filepath.Clean(f.Path)
	}
	return abs
}

// Type returns the detected type tag. See DetectType.
func (f File) Type() string {
	return DetectType(f.Path)
}

// Name returns the base name of Path, extension included.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// Parent returns the directory containing Path.
func (f File) Parent() string {
	return filepath.Dir(f.Path)
}

// BookmarkTitle returns BookmarkName, or Name when no label was given.
func (f File) BookmarkTitle() string {
	if strings.TrimSpace(f.BookmarkName) != "" {
		return f.BookmarkName
	}
	return f.Name()
}

// String implements fmt.Stringer.
func (f File) String() string {
	return f.Path
}

// withPath returns a File for a derived artifact, keeping the bookmark label.
func (f File) withPath(path string) File {
	return File{Path: path, BookmarkName: f.BookmarkName}
}

// UnmarshalJSON accepts both the camelCase keys written by WriteJSON and the
// snake_case keys path_str / bookmark_name.
func (f *File) UnmarshalJSON(data []byte) error {
	var raw struct {
		Path          string `json:"path"`
		PathStr       string `json:"path_str"`
		BookmarkName  string `json:"bookmarkName"`
		BookmarkSnake string `json:"bookmark_name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Path = firstNonEmpty(raw.Path, raw.PathStr)
	f.BookmarkName = firstNonEmpty(raw.BookmarkName, raw.BookmarkSnake)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Files is an ordered list of File. Its JSON form is the bundle format
// accepted by the CLI --json-file flag.
type Files []File

// FilesFromPaths wraps each path in a File, preserving order.
func FilesFromPaths(paths []string) Files {
	files := make(Files, len(paths))
	for i, p := range paths {
		files[i] = NewFile(p)
	}
	return files
}

// FilesInDir lists the first-level entries of dir, sorted by name.
// Subdirectories are included; callers filter by Type.
func FilesInDir(dir string) (Files, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make(Files, len(names))
	for i, name := range names {
		files[i] = NewFile(filepath.Join(dir, name))
	}
	return files, nil
}

// Paths returns the Path of every file.
func (fs Files) Paths() []string {
	paths := make([]string, len(fs))
	for i, f := range fs {
		paths[i] = f.Path
	}
	return paths
}

// Validate rejects an empty list and entries without a path.
func (fs Files) Validate() error {
	if len(fs) == 0 {
		return fmt.Errorf("%w: no files given", ErrInvalidArgument)
	}
	for i, f := range fs {
		if strings.TrimSpace(f.Path) == "" {
			return fmt.Errorf("%w: entry %d has an empty path", ErrInvalidArgument, i)
		}
	}
	return nil
}

// ReadFiles decodes a bundle from r.
func ReadFiles(r io.Reader) (Files, error) {
	var files Files
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, fmt.Errorf("%w: decoding file bundle: %v", ErrInvalidArgument, err)
	}
	if err := files.Validate(); err != nil {
		return nil, err
	}
	return files, nil
}

// LoadFiles reads a bundle from the JSON file at path.
func LoadFiles(path string) (Files, error) {
	f, err := os.Open(path) // #nosec G304 -- bundle path is user-provided
	if err != nil {
		return nil, err
	}
	defer f.Close()

	files, err := ReadFiles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return files, nil
}

// WriteJSON encodes the bundle to w, one indented array.
func (fs Files) WriteJSON(w io.Writer) error {
	if fs == nil {
		fs = Files{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fs)
}
