package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

// NewSettingsCommand groups the settings subcommands. Without --sitewide they work on the
// settings of the selected library.
func NewSettingsCommand(opts *rootOptions) *cobra.Command {
	var sitewide bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and edit sitewide and library settings",
	}

	cmd.PersistentFlags().BoolVar(&sitewide, "sitewide", false, "work on sitewide settings")

	cmd.AddCommand(newSettingsGetCommand(opts, &sitewide))
	cmd.AddCommand(newSettingsSetCommand(opts, &sitewide))
	cmd.AddCommand(newSettingsDeleteCommand(opts, &sitewide))
	cmd.AddCommand(newSettingsListCommand(opts, &sitewide))

	return cmd
}

func scopeOf(a *app, sitewide bool) string {
	if sitewide {
		return settings.Sitewide
	}

	return a.library
}

func newSettingsGetCommand(opts *rootOptions, sitewide *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			value, ok, err := a.settings.Get(cmd.Context(), scopeOf(a, *sitewide), args[0])
			if err != nil {
				return err
			}

			if !ok {
				return fmt.Errorf("setting %q is not set", args[0])
			}

			return writeOutput(cmd.OutOrStdout(), opts.Format, settings.Setting{Key: args[0], Value: value}, value+"\n")
		},
	}
}

// Sitewide writes go through settings.Admin, which validates values of known keys.
func newSettingsSetCommand(opts *rootOptions, sitewide *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Create or replace a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if *sitewide {
				return settings.NewAdmin(a.settings).Put(cmd.Context(), args[0], args[1])
			}

			return a.settings.Set(cmd.Context(), a.library, args[0], args[1])
		},
	}
}

func newSettingsDeleteCommand(opts *rootOptions, sitewide *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if *sitewide {
				return settings.NewAdmin(a.settings).Delete(cmd.Context(), args[0])
			}

			return a.settings.Delete(cmd.Context(), a.library, args[0])
		},
	}
}

func newSettingsListCommand(opts *rootOptions, sitewide *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			var stored []settings.Setting

			if *sitewide {
				listing, listErr := settings.NewAdmin(a.settings).List(cmd.Context())
				if listErr != nil {
					return listErr
				}

				stored = listing.Settings
			} else {
				all, allErr := a.settings.All(cmd.Context(), a.library)
				if allErr != nil {
					return allErr
				}

				for key, value := range all {
					stored = append(stored, settings.Setting{Key: key, Value: value})
				}

				slices.SortFunc(stored, func(x, y settings.Setting) int {
					return strings.Compare(x.Key, y.Key)
				})
			}

			var text strings.Builder
			for _, s := range stored {
				fmt.Fprintf(&text, "%s=%s\n", s.Key, s.Value)
			}

			return writeOutput(cmd.OutOrStdout(), opts.Format, stored, text.String())
		},
	}
}
