package sql

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/exilian/cmd/env"
	"github.com/sig-0/exilian/config"
	dbpkg "github.com/sig-0/exilian/storage/sql"
)

var errNoSQLBackend = errors.New("the cache backend is not an SQL backend")

// migrateCfg wraps the migrate configuration
type migrateCfg struct {
	rootCfg *sqlCfg

	fs  *flag.FlagSet
	out io.Writer
}

// newMigrateCmd creates the migrate command
func newMigrateCmd(rootCfg *sqlCfg, out io.Writer) *ffcli.Command {
	cfg := &migrateCfg{
		rootCfg: rootCfg,
		out:     out,
	}

	cfg.fs = flag.NewFlagSet("migrate", flag.ExitOnError)
	rootCfg.RegisterFlags(cfg.fs)

	return &ffcli.Command{
		Name:       "migrate",
		ShortUsage: "sql migrate -cache-backend {sqlite|postgres} [migration.sql, migration2.sql ...]",
		LongHelp:   "Runs the cache DB migrations. Runs every embedded migration if none are given",
		FlagSet:    cfg.fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// driverOf returns the SQL driver of the cache backend
func driverOf(backend string) (string, error) {
	switch backend {
	case config.BackendSQLite:
		return dbpkg.DriverSQLite, nil
	case config.BackendPostgres:
		return dbpkg.DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", errNoSQLBackend, backend)
	}
}

func (c *migrateCfg) exec(ctx context.Context, args []string) error {
	cfg, err := c.rootCfg.Config(c.fs)
	if err != nil {
		return err
	}

	driver, err := driverOf(cfg.Cache.Backend)
	if err != nil {
		return err
	}

	// Default to every embedded migration
	if len(args) == 0 {
		if args, err = dbpkg.Migrations(); err != nil {
			return err
		}
	}

	// Open the DB
	db, err := dbpkg.Open(driver, cfg.Cache.DSN)
	if err != nil {
		return err
	}

	defer func() {
		if err = db.Close(); err != nil {
			_, _ = fmt.Fprintf(c.out, "Unable to gracefully close DB: %s\n", err.Error())
		}
	}()

	// Ping the DB
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("unable to ping DB: %w", err)
	}

	for _, name := range args {
		path := fmt.Sprintf("schema/%s", name)

		sqlBytes, err := dbpkg.SchemaFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read migration %q: %w", name, err)
		}

		_, _ = fmt.Fprintf(c.out, "Running migration %s...\n", name)

		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("unable to run migration %q: %w", name, err)
		}

		_, _ = fmt.Fprintf(c.out, "Migration %q complete\n", name)
	}

	_, _ = fmt.Fprintln(c.out, "All migrations complete!")

	return nil
}
