package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/validation"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func newRootCmd(s streams) *cobra.Command {
	root := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten a list of lists from either end",
		Long: `flatten reads a YAML or JSON list of lists and prints its elements one
per line. Elements can be pulled from the front, from the back, alternately,
or in the order given by a pull script.`,
		Example: `  $ echo '[[a, b], [c, d]]' | flatten run --mode interleave
  $ flatten run doc.yml --mode script --script fbbf --show-empty`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.InvalidInput("flags", err.Error())
	})

	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, args []string, s streams) int {
	root := newRootCmd(s)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		appErr := errors.Wrap(err)
		fmt.Fprintln(s.err, appErr.Error())
		return appErr.ExitCode
	}
	return errors.ExitOK
}

// maxArgs rejects more than n positional arguments as INVALID_INPUT.
func maxArgs(n int, message string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if err := validation.New().Custom(len(args) <= n, "args", message).Validate(); err != nil {
			return err
		}
		return nil
	}
}
