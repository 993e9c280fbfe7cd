package main

import (
	"context"

	"github.com/alnah/go-pdftools/internal/config"
)

// runConfigCmd handles "config": it prints the configuration a command would
// run with, after --config and PDFTOOLS_* variables are applied.
func runConfigCmd(_ context.Context, inv *invocation) error {
	if err := inv.wantArgs("config", 0, 0); err != nil {
		return err
	}
	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = inv.env.Stdout.Write(out)
	return err
}
