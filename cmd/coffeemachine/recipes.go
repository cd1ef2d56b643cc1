package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"coffeemachine/cmd/coffeemachine/ui"
	"coffeemachine/internal/domain"
)

func (c *cli) recipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the drinks the machine can brew",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			catalog := domain.Recipes()
			if c.json {
				return c.printJSON(catalog)
			}

			rows := make([][]string, 0, len(catalog))
			for _, name := range domain.DrinkNames() {
				r := catalog[name]
				rows = append(rows, []string{
					domain.Label(name),
					name,
					strconv.Itoa(r.WaterML) + " ml",
					strconv.Itoa(r.CoffeeG) + " g",
				})
			}
			fmt.Fprintln(c.out, ui.Table([]string{"Drink", "Name", "Water", "Coffee"}, rows))
			return nil
		},
	}
}
