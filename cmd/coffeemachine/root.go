package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"coffeemachine/internal/app"
	"coffeemachine/internal/coffee"
	"coffeemachine/internal/config"
)

// cli carries state shared by every subcommand.
type cli struct {
	out    io.Writer
	errOut io.Writer
	debug  bool
	json   bool
	cfg    *config.Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "coffeemachine",
		Short:         "Coffee machine inventory: fill, brew and inspect",
		Version:       config.ServiceVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable info-level logging")
	root.PersistentFlags().BoolVar(&c.json, "json", false, "Print results as JSON")

	root.AddCommand(c.statusCmd())
	root.AddCommand(c.recipesCmd())
	root.AddCommand(c.fillCmd())
	root.AddCommand(c.brewCmd())
	root.AddCommand(c.serveCmd())

	return root
}

func (c *cli) logLevel() zapcore.Level {
	if c.debug {
		return zapcore.InfoLevel
	}
	return zapcore.WarnLevel
}

// withService opens the configured store for the length of one command.
func (c *cli) withService(ctx context.Context, fn func(context.Context, *coffee.Service) error) error {
	container, err := app.NewContainer(ctx, c.cfg, app.Options{
		LogOutput: zapcore.AddSync(c.errOut),
		LogLevel:  c.logLevel(),
	})
	if err != nil {
		return err
	}
	defer container.Shutdown(context.WithoutCancel(ctx))

	return fn(ctx, container.Service())
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
