package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/exilian/cmd/list"
	"github.com/sig-0/exilian/cmd/lookup"
	"github.com/sig-0/exilian/cmd/serve"
	"github.com/sig-0/exilian/cmd/sql"
)

func main() {
	// Load .env, if any
	_ = godotenv.Load()

	cmd := newRootCmd(os.Stdout)

	if err := cmd.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}

// newRootCmd creates the root command.
// Without a subcommand, it runs a prices lookup
func newRootCmd(out io.Writer) *ffcli.Command {
	cmd := lookup.NewLookupCmd(lookup.OpPrices)

	cmd.Name = "exilian"
	cmd.ShortUsage = "exilian [prices|prices-raw|data|list|serve|sql|generate] [flags]"
	cmd.LongHelp = "Looks up poe.ninja prices, keeping a local cache of every dataset"

	pricesExec := cmd.Exec
	cmd.Exec = func(ctx context.Context, args []string) error {
		if len(args) > 0 {
			_, err := fmt.Fprintf(out, "Invalid operation: %s\n", args[0])

			return err
		}

		return pricesExec(ctx, args)
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		lookup.NewLookupCmd(lookup.OpPrices),
		lookup.NewLookupCmd(lookup.OpPricesRaw),
		lookup.NewLookupCmd(lookup.OpData),
		list.NewListCmd(),
		serve.NewServeCmd(),
		sql.NewSQLCmd(),
		newGenerateCmd(),
	}

	return cmd
}
