package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/xsort/xsort/internal/fsutil"
	"github.com/xsort/xsort/internal/sortio"
)

const (
	fieldFlagName     = "field"
	orderFlagName     = "order"
	tmpDirFlagName    = "tmp-dir"
	tasksFlagName     = "tasks"
	maxRunsFlagName   = "max-runs"
	chunkSizeFlagName = "chunk-size-mb"
)

var sortFieldFlag = &cli.StringSliceFlag{
	Name:  fieldFlagName,
	Usage: "key field, format index:type[:flag,...] (type: string|integer|number; flags: ignore-blanks,ignore-case,random); repeatable, defaults to the whole line as a string key",
}

var sortCommonFlags = []cli.Flag{
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
		Name:  tmpDirFlagName,
		Usage: "directory for intermediate run files (defaults to the system temp directory)",
	},
	&cli.IntFlag{
		Name:  tasksFlagName,
		Usage: "number of concurrent sort tasks (0 means all logical CPUs)",
	},
	&cli.IntFlag{
		Name:  maxRunsFlagName,
		Usage: "approximate ceiling on simultaneously open run files",
	},
	&cli.Int64Flag{
		Name:  chunkSizeFlagName,
		Usage: "target chunk size in megabytes",
	},
	&cli.StringFlag{
		Name:  "field-separator",
		Value: "\t",
		Usage: "byte that separates fields within a line",
	},
	&cli.BoolFlag{
		Name:  "ignore-empty",
		Usage: "drop blank lines before sorting",
	},
	&cli.StringFlag{
		Name:  "ignore-lines",
		Usage: "drop lines matching this regular expression before sorting",
	},
	&cli.BoolFlag{
		Name:  "concurrent-merge",
		Value: true,
		Usage: "collapse each worker's runs to one before the final merge",
	},
	&cli.StringSliceFlag{
		Name:  "prefix",
		Usage: "line written verbatim before the sorted output, never parsed or compared; repeatable",
	},
	&cli.StringSliceFlag{
		Name:  "suffix",
		Usage: "line written verbatim after the sorted output, never parsed or compared; repeatable",
	},
	&cli.BoolFlag{
		Name:  "progress",
		Usage: "show a live progress bar of chunks/bytes processed",
	},
}

// NewSortCommand returns the "sort" subcommand: chunk every input, sort
// each chunk in memory, and merge the resulting runs into a single
// sorted output file.
func NewSortCommand() *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "sort one or more large line-oriented files into a single output",
		ArgsUsage: "SOURCE [SOURCE...] DESTINATION",
		Flags:     sortCommonFlags,
		Before: func(c *cli.Context) error {
			return checkNumberOfArguments(c, 2, -1)
		},
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			output := args[len(args)-1]
			inputs, err := fsutil.ExpandInputs(args[:len(args)-1])
			if err != nil {
				printError(appName, c.Command.Name, err)
				return err
			}

			cfg := sortio.NewConfig(inputs, output)
			if err := applyCommonFlags(c, cfg); err != nil {
				printError(appName, c.Command.Name, err)
				return err
			}

			if err := sortio.Sort(cfg); err != nil {
				printError(appName, c.Command.Name, err)
				return err
			}
			return nil
		},
	}
}

// applyCommonFlags fills in the builder fields shared by sort and merge
// from the flags declared in sortCommonFlags.
func applyCommonFlags(c *cli.Context, cfg *sortio.Config) error {
	fields, err := parseFields(c.StringSlice(fieldFlagName))
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		cfg.WithFields(fields)
	}

	if c.String(orderFlagName) == "desc" {
		cfg.WithOrder(sortio.Desc)
	}

	if dir := c.String(tmpDirFlagName); dir != "" {
		cfg.WithTmpDir(dir)
	}
	if c.IsSet(tasksFlagName) {
		cfg.WithTasks(c.Int(tasksFlagName))
	}
	if c.IsSet(maxRunsFlagName) {
		cfg.WithMaxRuns(c.Int(maxRunsFlagName))
	}
	if c.IsSet(chunkSizeFlagName) {
		cfg.WithChunkSizeMB(c.Int64(chunkSizeFlagName))
	}
	if sep := c.String("field-separator"); sep != "" {
		cfg.WithFieldSeparator(sep[0])
	}
	cfg.WithIgnoreEmpty(c.Bool("ignore-empty"))
	if pattern := c.String("ignore-lines"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("bad --ignore-lines pattern: %w", err)
		}
		cfg.WithIgnoreLines(re)
	}
	cfg.WithConcurrentMerge(c.Bool("concurrent-merge"))
	if prefix := c.StringSlice("prefix"); len(prefix) > 0 {
		cfg.WithPrefixLines(prefix)
	}
	if suffix := c.StringSlice("suffix"); len(suffix) > 0 {
		cfg.WithSuffixLines(suffix)
	}
	cfg.WithProgress(c.Bool("progress"))

	return nil
}

// parseFields turns repeated --field index:type[:flag,...] values into
// sortio.Fields.
func parseFields(raw []string) ([]sortio.Field, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	fields := make([]sortio.Field, 0, len(raw))
	for _, spec := range raw {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("bad --field %q: expected index:type[:flag,...]", spec)
		}

		index, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad --field %q: index must be an integer", spec)
		}

		var ftype sortio.FieldType
		switch parts[1] {
		case "string":
			ftype = sortio.String
		case "integer":
			ftype = sortio.Integer
		case "number":
			ftype = sortio.Number
		default:
			return nil, fmt.Errorf("bad --field %q: unknown type %q", spec, parts[1])
		}

		f := sortio.NewField(index, ftype)
		if len(parts) > 2 {
			for _, flag := range strings.Split(parts[2], ",") {
				switch flag {
				case "ignore-blanks":
					f = f.WithIgnoreBlanks(true)
				case "ignore-case":
					f = f.WithIgnoreCase(true)
				case "random":
					f = f.WithRandom(true)
				case "":
				default:
					return nil, fmt.Errorf("bad --field %q: unknown flag %q", spec, flag)
				}
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}
