package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"coffeemachine/internal/coffee"
	"coffeemachine/internal/domain"
)

func (c *cli) brewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "brew <drink>",
		Short:     "Brew a drink from the catalog",
		Args:      cobra.ExactArgs(1),
		ValidArgs: domain.DrinkNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.brew(cmd.Context(), args[0])
		},
	}

	for _, name := range domain.DrinkNames() {
		name := name
		recipe, _ := domain.LookupRecipe(name)
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Brew %s (%d ml water, %d g coffee)", domain.DisplayName(name), recipe.WaterML, recipe.CoffeeG),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.brew(cmd.Context(), name)
			},
		})
	}
	return cmd
}

func (c *cli) brew(ctx context.Context, drink string) error {
	return c.withService(ctx, func(ctx context.Context, svc *coffee.Service) error {
		res, err := svc.Brew(ctx, drink)
		if err != nil {
			return err
		}
		return c.printResult(res)
	})
}
