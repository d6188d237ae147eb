package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kobzarvs/smartkeys/internal/app"
)

var errNoTerminal = errors.New("stdin and stdout must be a terminal")

func newRootCommand(run func(args []string, opts app.Options) error) *cobra.Command {
	var opts app.Options
	cmd := &cobra.Command{
		Use:   "smartkeys [file]",
		Short: "A terminal editor with smart End, Backspace, Enter and ':' keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to config file (toml or yaml)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&opts.Language, "language", "", "language id, overriding detection")
	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runEditor(args []string, opts app.Options) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNoTerminal
	}
	return app.New(args, opts).Run()
}

func main() {
	if err := newRootCommand(runEditor).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "smartkeys:", err)
		os.Exit(1)
	}
}
