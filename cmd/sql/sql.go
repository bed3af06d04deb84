package sql

import (
	"context"
	"flag"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/exilian/cmd/common"
)

// sqlCfg wraps the sql configuration
type sqlCfg struct {
	common.Cfg
}

// NewSQLCmd creates the sql subcommand
func NewSQLCmd() *ffcli.Command {
	cfg := &sqlCfg{}

	fs := flag.NewFlagSet("sql", flag.ExitOnError)

	cmd := &ffcli.Command{
		Name:       "sql",
		ShortUsage: "sql <subcommand> [flags] [<arg>...]",
		LongHelp:   "Manages the SQL snapshot cache",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		newMigrateCmd(cfg, os.Stdout),
	}

	return cmd
}
