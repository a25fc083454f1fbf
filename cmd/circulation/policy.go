package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/policy"
	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

// policyView is the printable form of a library's borrowing policy.
type policyView struct {
	Library             string               `json:"library"`
	HoldPolicy          policy.HoldPolicy    `json:"hold_policy"`
	MaxOutstandingFines string               `json:"max_outstanding_fines,omitempty"`
	LendingPolicy       policy.LendingPolicy `json:"lending_policy"`
	ExternalType        string               `json:"external_type,omitempty"`
	ClassificationKey   string               `json:"classification_key,omitempty"`
	AllowedAudiences    []string             `json:"allowed_audiences,omitempty"`
	Restricted          bool                 `json:"restricted,omitempty"`
}

// NewPolicyCommand groups the borrowing policy subcommands.
func NewPolicyCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the borrowing policy of a library",
	}

	cmd.AddCommand(newPolicyShowCommand(opts))

	return cmd
}

func newPolicyShowCommand(opts *rootOptions) *cobra.Command {
	var externalType string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Load and print the borrowing policy from the settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			cfg, err := settings.LoadPolicy(cmd.Context(), a.settings, a.library)
			if err != nil {
				return err
			}

			view := policyView{
				Library:       a.library,
				HoldPolicy:    cfg.HoldPolicy(),
				LendingPolicy: cfg.LendingPolicy(),
			}

			if threshold, ok := cfg.MaxOutstandingFines(); ok {
				view.MaxOutstandingFines = threshold.String()
			}

			if externalType != "" {
				view.ExternalType = externalType
				view.ClassificationKey = cfg.ClassificationKey(externalType)
				view.AllowedAudiences, view.Restricted = cfg.AllowedAudiences(view.ClassificationKey)
			}

			return writeOutput(cmd.OutOrStdout(), opts.Format, view, view.describe())
		},
	}

	cmd.Flags().StringVar(&externalType, "external-type", "", "show the classification key and audiences of this patron external type")

	return cmd
}

func (v policyView) describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "library: %s\n", v.Library)
	fmt.Fprintf(&b, "hold policy: %s\n", v.HoldPolicy)

	if v.MaxOutstandingFines == "" {
		b.WriteString("max outstanding fines: none\n")
	} else {
		fmt.Fprintf(&b, "max outstanding fines: %s\n", v.MaxOutstandingFines)
	}

	for _, key := range slices.Sorted(maps.Keys(v.LendingPolicy)) {
		fmt.Fprintf(&b, "lending policy %s: %s\n", key, strings.Join(v.LendingPolicy[key], ", "))
	}

	if v.ExternalType != "" {
		audiences := "unrestricted"
		if v.Restricted {
			audiences = strings.Join(v.AllowedAudiences, ", ")
		}

		fmt.Fprintf(&b, "external type %s: key %s, audiences %s\n", v.ExternalType, v.ClassificationKey, audiences)
	}

	return b.String()
}
