package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-pdftools"
	"github.com/alnah/go-pdftools/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the base configuration, and an optional office
// converter override.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // base config, replaced by --config when given

	// Office replaces the LibreOffice toolchain when set (tests). The
	// --listener flag is ignored in that case.
	Office pdftools.OfficeConverter
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}
