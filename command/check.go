package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xsort/xsort/internal/sortio"
)

// NewCheckCommand returns the "check" subcommand: verify that one or
// more files are already sorted under the given key/order, without
// producing any output file (§4.6). Exit code 0 means sorted, 1 means
// not sorted, 2 means the check itself could not be completed (bad
// arguments, I/O or parse failure).
func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "verify that files are already sorted",
		ArgsUsage: "SOURCE [SOURCE...]",
		Flags: []cli.Flag{
			sortFieldFlag,
			&cli.GenericFlag{
				Name: orderFlagName,
				Value: &EnumValue{
					Enum:    []string{"asc", "desc"},
					Default: "asc",
				},
				Usage: "sort order: (asc, desc)",
			},
			&cli.StringFlag{
				Name:  "field-separator",
				Value: "\t",
				Usage: "byte that separates fields within a line",
			},
			&cli.BoolFlag{
				Name:  "ignore-empty",
				Usage: "skip blank lines when checking order",
			},
			&cli.StringFlag{
				Name:  "ignore-lines",
				Usage: "skip lines matching this regular expression when checking order",
			},
		},
		Before: func(c *cli.Context) error {
			if err := checkNumberOfArguments(c, 1, -1); err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			inputs := c.Args().Slice()
			cfg := sortio.NewConfig(inputs, "")
			if err := applyCommonFlags(c, cfg); err != nil {
				printError(appName, c.Command.Name, err)
				return cli.Exit("", 2)
			}

			sorted, err := sortio.Check(cfg)
			if err != nil {
				printError(appName, c.Command.Name, err)
				return cli.Exit("", 2)
			}
			if !sorted {
				fmt.Println("not sorted")
				return cli.Exit("", 1)
			}

			fmt.Println("sorted")
			return nil
		},
	}
}
