package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/circulation-manager-go/collections"
)

var errNoHoldingsFile = errors.New("no holdings file: pass --holdings or set holdings.path")

// NewClassifyCommand classifies the holdings of a library into large, small and tiny collections.
func NewClassifyCommand(opts *rootOptions) *cobra.Command {
	var holdingsPath string
	var store bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify the languages of a library's holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if holdingsPath == "" {
				holdingsPath = a.cfg.Holdings.Path
			}

			if holdingsPath == "" {
				return errNoHoldingsFile
			}

			holdings, err := collections.LoadHoldingsFile(holdingsPath)
			if err != nil {
				return err
			}

			var classification collections.Classification

			if store {
				classification, err = collections.Estimate(ctx, holdings, a.settings, a.library)
				if err != nil {
					return err
				}
			} else {
				histogram, holdingsErr := holdings.HoldingsByLanguage(ctx, a.library)
				if holdingsErr != nil {
					return holdingsErr
				}

				classification = collections.Classify(histogram)
			}

			return writeOutput(cmd.OutOrStdout(), opts.Format, classification, classification.Describe())
		},
	}

	cmd.Flags().StringVar(&holdingsPath, "holdings", "", "holdings YAML file (defaults to holdings.path)")
	cmd.Flags().BoolVar(&store, "store", false, "store the language lists as library settings")

	return cmd
}
