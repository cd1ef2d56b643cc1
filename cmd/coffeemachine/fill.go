package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"coffeemachine/cmd/coffeemachine/ui"
	"coffeemachine/internal/coffee"
)

type fillFunc func(*coffee.Service, context.Context, *int) (coffee.Result, error)

func (c *cli) fillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Refill the water or coffee container",
	}
	cmd.AddCommand(c.fillContainerCmd("water", "ml", (*coffee.Service).FillWater))
	cmd.AddCommand(c.fillContainerCmd("coffee", "g", (*coffee.Service).FillCoffee))
	return cmd
}

func (c *cli) fillContainerCmd(container, unit string, fill fillFunc) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <%s>", container, unit),
		Short: fmt.Sprintf("Add %s of %s", unit, container),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args, unit)
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(ctx context.Context, svc *coffee.Service) error {
				res, err := fill(svc, ctx, amount)
				if err != nil {
					return err
				}
				return c.printResult(res)
			})
		},
	}
}

// parseAmount returns nil when no amount was given so the service can report
// it as missing.
func parseAmount(args []string, unit string) (*int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("amount %q is not a whole number of %s", args[0], unit)
	}
	return &n, nil
}

func (c *cli) printResult(res coffee.Result) error {
	if c.json {
		return c.printJSON(res)
	}
	fmt.Fprintln(c.out, ui.SuccessMsg("%s", res.Message))
	fmt.Fprint(c.out, renderState(res.State))
	return nil
}
