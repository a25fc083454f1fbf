package revoke

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/vendor"
)

// CommandHandler runs Query -> Decide -> vendor call -> Append with retry.
type CommandHandler struct {
	eventStore   shell.EventStore
	api          vendor.CirculationAPI
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, api vendor.CirculationAPI, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		api:        api,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the loan or releases the hold, with retry on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	filter := BuildEventFilter(command.PatronID, command.Pool.ID)

	history, maxSequenceNumber, err := shell.LoadHistory(ctx, h.eventStore, filter)
	if err != nil {
		return err
	}

	result := Decide(history, command)

	patron := core.ProjectPatronActivity(history, command.PatronID.String()).Patron

	switch result.Event.(type) {
	case core.LoanReturned:
		// The vendor may have expired the loan already; the local loan is closed either way.
		if err = h.api.Checkin(ctx, patron, command.Pool); err != nil && !errors.Is(err, vendor.ErrNotCheckedOut) {
			return err
		}

	case core.HoldReleased:
		if err = h.api.ReleaseHold(ctx, patron, command.Pool); err != nil && !errors.Is(err, vendor.ErrNotOnHold) {
			return err
		}
	}

	if err = shell.AppendEvent(ctx, h.eventStore, filter, maxSequenceNumber, result.Event); err != nil {
		return err
	}

	return result.HasError()
}
