package command

import (
	"github.com/urfave/cli/v2"

	"github.com/xsort/xsort/internal/sortio"
)

// NewMergeCommand returns the "merge" subcommand: fuse already-sorted
// shards directly, without chunking or re-sorting (§4.7).
func NewMergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "merge two or more already-sorted files into a single output",
		ArgsUsage: "SOURCE SOURCE [SOURCE...] DESTINATION",
		Flags:     sortCommonFlags,
		Before: func(c *cli.Context) error {
			return checkNumberOfArguments(c, 3, -1)
		},
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			output := args[len(args)-1]
			inputs := args[:len(args)-1]

			cfg := sortio.NewConfig(inputs, output)
			if err := applyCommonFlags(c, cfg); err != nil {
				printError(appName, c.Command.Name, err)
				return err
			}

			if err := sortio.Merge(cfg); err != nil {
				printError(appName, c.Command.Name, err)
				return err
			}
			return nil
		},
	}
}
