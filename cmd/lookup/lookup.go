package lookup

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/exilian/app"
	"github.com/sig-0/exilian/cmd/common"
	"github.com/sig-0/exilian/cmd/env"
	"github.com/sig-0/exilian/render"
)

// Operation is the way a loaded snapshot is presented
type Operation string

const (
	OpPrices    Operation = "prices"
	OpPricesRaw Operation = "prices-raw"
	OpData      Operation = "data"
)

var descriptions = map[Operation]string{
	OpPrices:    "Prints the chaos value of every record matching the search",
	OpPricesRaw: "Prints every record of the dataset, as JSON",
	OpData:      "Prints the whole dataset snapshot, as JSON",
}

// lookupCfg wraps the lookup configuration
type lookupCfg struct {
	common.Cfg

	op        Operation
	selection Selection

	fs     *flag.FlagSet
	out    io.Writer
	logOut io.Writer

	opts []app.Option
}

// NewLookupCmd creates a lookup command for the given operation
func NewLookupCmd(op Operation) *ffcli.Command {
	return newLookupCmd(op, os.Stdout, os.Stderr)
}

func newLookupCmd(op Operation, out, logOut io.Writer, opts ...app.Option) *ffcli.Command {
	cfg := &lookupCfg{
		op:     op,
		out:    out,
		logOut: logOut,
		opts:   opts,
	}

	cfg.fs = flag.NewFlagSet(string(op), flag.ExitOnError)
	cfg.registerFlags(cfg.fs)

	return &ffcli.Command{
		Name:       string(op),
		ShortUsage: fmt.Sprintf("%s [-l league] [-c category] [-t type] [-s search] [flags]", op),
		LongHelp:   descriptions[op],
		FlagSet:    cfg.fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *lookupCfg) registerFlags(fs *flag.FlagSet) {
	c.RegisterFlags(fs)

	for _, name := range []string{"l", "league"} {
		fs.StringVar(&c.selection.League, name, "", "the league to look up")
	}

	for _, name := range []string{"c", "category"} {
		fs.StringVar(&c.selection.Category, name, "", "the dataset category (Currency, Item)")
	}

	for _, name := range []string{"t", "type"} {
		fs.StringVar(&c.selection.Type, name, "", "the dataset type of the category")
	}

	for _, name := range []string{"s", "search"} {
		fs.StringVar(&c.selection.Search, name, "", "the approximate name to search for")
	}
}

// exec loads the selected snapshot and presents it
func (c *lookupCfg) exec(ctx context.Context, _ []string) error {
	cfg, err := c.Config(c.fs)
	if err != nil {
		return err
	}

	logger, err := c.Logger(c.logOut)
	if err != nil {
		return err
	}

	key, notices := c.selection.Resolve()
	for _, notice := range notices {
		_, _ = fmt.Fprintln(c.out, notice)
	}

	opts := append([]app.Option{app.WithLogger(logger)}, c.opts...)

	a, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return fmt.Errorf("unable to create app, %w", err)
	}

	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Error("unable to gracefully close cache", "err", closeErr)
		}
	}()

	snapshot := a.Load(ctx, key)

	switch c.op {
	case OpPricesRaw:
		return render.Raw(c.out, snapshot)
	case OpData:
		return render.Data(c.out, snapshot)
	default:
		return render.Prices(c.out, snapshot, c.selection.Search)
	}
}
