package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/exilian/app"
	"github.com/sig-0/exilian/cmd/common"
	"github.com/sig-0/exilian/cmd/env"
	"github.com/sig-0/exilian/config"
	"github.com/sig-0/exilian/ingest"
	"github.com/sig-0/exilian/server"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	common.Cfg

	listenAddress string
	warm          string

	fs *flag.FlagSet
}

// NewServeCmd creates the serve command
func NewServeCmd() *ffcli.Command {
	return newServeCmd(&serveCfg{})
}

func newServeCmd(cfg *serveCfg) *ffcli.Command {
	cfg.fs = flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(cfg.fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves price lookups over HTTP, keeping the warm datasets fresh",
		FlagSet:    cfg.fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	c.RegisterFlags(fs)

	fs.StringVar(
		&c.listenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.warm,
		"warm",
		"",
		"comma separated League/Category/Type keys to keep fresh",
	)
}

// config resolves the serve configuration, including the serve-only flags
func (c *serveCfg) config() (*config.Config, error) {
	cfg, err := c.Config(c.fs)
	if err != nil {
		return nil, err
	}

	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Server.ListenAddress = c.listenAddress
		case "warm":
			cfg.Server.Warm = splitList(c.warm)
		}
	})

	if err = config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	return cfg, nil
}

// exec executes the serve command
func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	// Create a new logger
	logger, err := c.Logger(os.Stdout)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("unable to create app, %w", err)
	}

	defer func() {
		if err = a.Close(); err != nil {
			logger.Error(
				"unable to gracefully close cache",
				"err", err,
			)
		}
	}()

	// Create the warm refresher
	orchestrator := ingest.New(ingest.WithLogger(logger))
	for _, key := range cfg.WarmKeys() {
		if err = orchestrator.Register(ingest.NewWarmJob(a, key, cfg.RefreshInterval())); err != nil {
			return fmt.Errorf("unable to register warm job: %w", err)
		}
	}

	// Create the server instance
	s, err := server.New(
		a,
		server.WithLogger(logger),
		server.WithConfig(&cfg.Server),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the warm refresher
	group.Go(func() error {
		return orchestrator.Start(gCtx)
	})

	return group.Wait()
}

// splitList splits a comma separated list, dropping empty entries
func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
