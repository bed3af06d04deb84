package list

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/exilian/cmd/env"
	"github.com/sig-0/exilian/render"
	"github.com/sig-0/exilian/storage/types"
)

// listing is a printable enumeration
type listing struct {
	singular string
	plural   string
	values   []string
	def      string
}

func listingOf[T ~string](singular, plural string, e types.Enum[T]) listing {
	return listing{
		singular: singular,
		plural:   plural,
		values:   e.Strings(),
		def:      string(e.Default),
	}
}

var listings = map[string]listing{
	"categories":     listingOf("category", "Categories", types.Categories),
	"leagues":        listingOf("league", "Leagues", types.Leagues),
	"currency-types": listingOf("currency type", "Currency Types", types.CurrencyTypes),
	"item-types":     listingOf("item type", "Item Types", types.ItemTypes),
}

// listCfg wraps the list configuration
type listCfg struct {
	query string

	out io.Writer
}

// NewListCmd creates the list command
func NewListCmd() *ffcli.Command {
	return newListCmd(os.Stdout)
}

func newListCmd(out io.Writer) *ffcli.Command {
	cfg := &listCfg{
		out: out,
	}

	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "list",
		ShortUsage: "list -q {categories|leagues|currency-types|item-types}",
		LongHelp:   "Lists the valid values of a selection, and its default",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *listCfg) registerFlags(fs *flag.FlagSet) {
	for _, name := range []string{"q", "query"} {
		fs.StringVar(
			&c.query,
			name,
			"",
			"the enumeration to list (categories, leagues, currency-types, item-types)",
		)
	}
}

func (c *listCfg) exec(_ context.Context, _ []string) error {
	l, ok := listings[c.query]
	if !ok {
		_, err := fmt.Fprintf(c.out, "Invalid query: %s\n", c.query)

		return err
	}

	return render.List(c.out, l.singular, l.plural, l.values, l.def)
}
