package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/command/enrollpatron"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell/observable"
	"github.com/AntonStoeckl/circulation-manager-go/identity"
	"github.com/AntonStoeckl/circulation-manager-go/identity/clever"
	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

var errNoSigningSecret = errors.New("sitewide setting " + settings.KeyBearerTokenSigningSecret + " is not set")

// NewAuthorizeURLCommand prints the Clever login URL.
func NewAuthorizeURLCommand(opts *rootOptions) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the Clever login URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			provider, err := a.cleverProvider()
			if err != nil {
				return err
			}

			authorizeURL := provider.AuthorizeURL(state)

			return writeOutput(cmd.OutOrStdout(), opts.Format, map[string]string{"url": authorizeURL}, authorizeURL+"\n")
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "opaque state passed through to the callback")

	return cmd
}

// callbackResult is what the OAuth callback hands to the client.
type callbackResult struct {
	PatronID     string `json:"patron_id"`
	ExternalType string `json:"external_type"`
	NewPatron    bool   `json:"new_patron"`
	BearerToken  string `json:"bearer_token"`
}

// NewOAuthCallbackCommand completes the Clever login with an authorization code: it verifies the
// patron, enrolls or updates them and issues a circulation bearer token.
func NewOAuthCallbackCommand(opts *rootOptions) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "oauth-callback",
		Short: "Exchange a Clever authorization code for a circulation bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			secret, ok, err := a.settings.Get(ctx, settings.Sitewide, settings.KeyBearerTokenSigningSecret)
			if err != nil {
				return err
			}

			if !ok {
				return errNoSigningSecret
			}

			signer, err := identity.NewTokenSigner(secret)
			if err != nil {
				return err
			}

			provider, err := a.cleverProvider()
			if err != nil {
				return err
			}

			patron, providerToken, err := provider.OAuthCallback(ctx, code)
			if err != nil {
				return err
			}

			eventStore, err := a.openEventStore(ctx)
			if err != nil {
				return err
			}

			handler, err := observable.NewCommandWrapper[enrollpatron.Command](
				enrollpatron.NewCommandHandler(eventStore),
				commandOptions[enrollpatron.Command](a)...,
			)
			if err != nil {
				return err
			}

			command := enrollpatron.BuildCommand(clever.Name, patron, time.Now())

			result, err := handler.Handle(ctx, command)
			if err != nil {
				return err
			}

			token, err := signer.Sign(clever.Name, patron, providerToken)
			if err != nil {
				return err
			}

			out := callbackResult{
				PatronID:     command.PatronID.String(),
				ExternalType: patron.ExternalType,
				NewPatron:    !result.Idempotent,
				BearerToken:  token,
			}

			text := fmt.Sprintf("patron %s (%q)\n%s\n", out.PatronID, out.ExternalType, out.BearerToken)

			return writeOutput(cmd.OutOrStdout(), opts.Format, out, text)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code from the Clever redirect")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
