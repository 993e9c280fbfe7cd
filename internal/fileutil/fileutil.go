// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")

	// Destination errors, re-exported by the root package.
	ErrAlreadyExists = errors.New("destination already exists")
	ErrParentMissing = errors.New("destination parent directory does not exist")
	ErrInvalidTarget = errors.New("destination is a directory")
)

// FilePerm is the permission applied to every written output.
const FilePerm = 0o644 // rw-r--r--

// WriteTempFile creates a temporary file in dir with the given content and extension.
// An empty dir means the system temp directory.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(dir, content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp(dir, ".pdftools-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "office" -> false (name)
//   - "./pdftools.yaml" -> true (relative path)
//   - "/absolute/path.yaml" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// CheckDestination verifies that path can receive a new file.
// Checks run in order: existing directory, existing file without overwrite,
// missing parent directory. Directories are never created.
func CheckDestination(path string, overwrite bool) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%w: %s", ErrInvalidTarget, path)
	case err == nil && !overwrite:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking destination: %w", err)
	}

	parent := filepath.Dir(path)
	if !DirExists(parent) {
		return fmt.Errorf("%w: %s", ErrParentMissing, parent)
	}
	return nil
}

// AtomicWrite runs write against a temporary sibling of path and renames the
// result into place. On any failure the temporary file is removed and path is
// left untouched.
func AtomicWrite(path string, write func(tmpPath string) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp output: %w", err)
	}

	if err := write(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Chmod(tmpPath, FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting output permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}

// SwapExt returns path with its extension replaced by ext (which includes the dot).
func SwapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
