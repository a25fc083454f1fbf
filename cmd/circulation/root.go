package main

import (
	"fmt"
	"io"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var validFormats = []string{formatText, formatJSON}

// rootOptions holds the global flags.
type rootOptions struct {
	ConfigPath string
	Library    string
	Verbose    bool
	Format     string
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "circulation",
		Short:         "Circulation manager tasks",
		Long:          "Classify collections, edit settings, inspect borrowing policies and run the Clever OAuth flow of a library circulation manager.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path of the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Library, "library", "", "library short name (defaults to the configured one)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatText, "output format (json|text)")

	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewAuthorizeURLCommand(opts))
	cmd.AddCommand(NewOAuthCallbackCommand(opts))
	cmd.AddCommand(NewActivityCommand(opts))
	cmd.AddCommand(NewPolicyCommand(opts))

	return cmd
}

// writeOutput writes v as indented JSON or text as-is, depending on the format flag.
func writeOutput(w io.Writer, format string, v any, text string) error {
	if format == formatJSON {
		encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(encoded))

		return err
	}

	_, err := fmt.Fprint(w, text)

	return err
}
