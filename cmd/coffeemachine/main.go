package main

import (
	"errors"
	"fmt"
	"os"

	"coffeemachine/cmd/coffeemachine/ui"
	"coffeemachine/internal/domain"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		var merr *domain.Error
		if errors.As(err, &merr) {
			fmt.Fprintln(os.Stderr, ui.ErrorMsg("%s", merr.Message))
		} else {
			fmt.Fprintln(os.Stderr, ui.ErrorMsg("error: %v", err))
		}
		os.Exit(1)
	}
}
