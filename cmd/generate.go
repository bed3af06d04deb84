package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/exilian/config"
)

const defaultConfigPath = "./config.toml"

// generateCfg wraps the generate configuration
type generateCfg struct {
	outputPath string

	out io.Writer
}

// newGenerateCmd creates the config generate command
func newGenerateCmd() *ffcli.Command {
	cfg := &generateCfg{
		out: os.Stdout,
	}

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "generate",
		ShortUsage: "generate [flags]",
		LongHelp:   "Generates the default exilian TOML configuration",
		FlagSet:    fs,
		Exec:       cfg.exec,
	}
}

func (c *generateCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.outputPath,
		"output-path",
		defaultConfigPath,
		"the output path for the generated TOML configuration",
	)
}

func (c *generateCfg) exec(_ context.Context, _ []string) error {
	if err := config.Write(config.DefaultConfig(), c.outputPath); err != nil {
		return fmt.Errorf("unable to generate config, %w", err)
	}

	_, _ = fmt.Fprintf(c.out, "Configuration written to %s\n", c.outputPath)

	return nil
}
