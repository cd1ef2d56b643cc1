package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"coffeemachine/internal/app"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Consume machine commands from Kafka and publish results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.NewApplication(cmd.Context(), c.cfg, app.Options{
				LogOutput: zapcore.AddSync(c.out),
				LogLevel:  zapcore.InfoLevel,
			})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Run()
		},
	}
}
