package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// checkNumberOfArguments checks if the number of the arguments is valid.
// if the max is negative then there is no upper limit of arguments.
func checkNumberOfArguments(ctx *cli.Context, min, max int) error {
	l := ctx.Args().Len()
	if min == 1 && max == 1 && l != 1 {
		return fmt.Errorf("expected only one argument")
	}
	if min == 2 && max == 2 && l != 2 {
		return fmt.Errorf("expected source and destination arguments")
	}
	if l < min {
		return fmt.Errorf("expected at least %d arguments but was given %d: %q", min, l, ctx.Args().Slice())
	}
	if max >= 0 && l > max {
		return fmt.Errorf("expected at most %d arguments but was given %d: %q", max, l, ctx.Args().Slice())
	}
	return nil
}
