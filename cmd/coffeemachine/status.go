package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"coffeemachine/cmd/coffeemachine/ui"
	"coffeemachine/internal/coffee"
	"coffeemachine/internal/domain"
)

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show water and coffee levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd.Context(), func(ctx context.Context, svc *coffee.Service) error {
				state, err := svc.Status(ctx)
				if err != nil {
					return err
				}
				if c.json {
					return c.printJSON(state)
				}
				fmt.Fprint(c.out, renderState(state))
				return nil
			})
		},
	}
}

func renderState(s domain.State) string {
	return ui.KeyValues("  ",
		ui.KV("Water", ui.Level(s.WaterML, s.WaterCapacityML, "ml")),
		ui.KV("Coffee", ui.Level(s.CoffeeG, s.CoffeeCapacityG, "g")),
	)
}
