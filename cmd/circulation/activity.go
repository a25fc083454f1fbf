package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/query/patronactivity"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell/observable"
)

// NewActivityCommand prints the open loans and holds of a patron.
func NewActivityCommand(opts *rootOptions) *cobra.Command {
	var patron string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show a patron's open loans and holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			patronID, err := uuid.Parse(patron)
			if err != nil {
				return fmt.Errorf("invalid patron id: %w", err)
			}

			a, err := newApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			eventStore, err := a.openEventStore(ctx)
			if err != nil {
				return err
			}

			handler := observable.NewQueryWrapper[patronactivity.Query, patronactivity.Activity](
				patronactivity.NewQueryHandler(eventStore),
				queryOptions[patronactivity.Query, patronactivity.Activity](a)...,
			)

			activity, err := handler.Handle(ctx, patronactivity.BuildQuery(patronID))
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), opts.Format, activity, describeActivity(activity))
		},
	}

	cmd.Flags().StringVar(&patron, "patron", "", "patron id")
	_ = cmd.MarkFlagRequired("patron")

	return cmd
}

func describeActivity(activity patronactivity.Activity) string {
	if !activity.Enrolled {
		return "patron is not enrolled\n"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "loans: %d\n", len(activity.Loans))
	for _, loan := range activity.Loans {
		fmt.Fprintf(&b, "  %s since %s\n", loan.PoolID, loan.Start.Format("2006-01-02"))
	}

	fmt.Fprintf(&b, "holds: %d\n", len(activity.Holds))
	for _, hold := range activity.Holds {
		fmt.Fprintf(&b, "  %s (%s)\n", hold.PoolID, hold.State)
	}

	return b.String()
}
