package fulfill

import (
	"context"

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

// Handle fulfills the loan and drops the content, see Fulfill.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	_, result, err := h.Fulfill(ctx, command)

	return result, err
}

// Fulfill asks the vendor for the content and locks the loan to the mechanism on first use.
// A repeated fulfillment with the locked mechanism is idempotent but still returns the content.
func (h CommandHandler) Fulfill(ctx context.Context, command Command) (vendor.Fulfillment, shell.HandlerResult, error) {
	var isIdempotent bool
	var fulfillment vendor.Fulfillment

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		f, idempotent, execErr := h.executeCommand(retryCtx, command)
		fulfillment, isIdempotent = f, idempotent

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return vendor.Fulfillment{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return fulfillment, shell.NewIdempotentResult(retryMetrics), nil
	}

	return fulfillment, shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (vendor.Fulfillment, bool, error) {
	filter := BuildEventFilter(command.PatronID, command.Pool.ID)

	history, maxSequenceNumber, err := shell.LoadHistory(ctx, h.eventStore, filter)
	if err != nil {
		return vendor.Fulfillment{}, false, err
	}

	result := Decide(history, command)

	if result.HasError() != nil {
		if err = shell.AppendEvent(ctx, h.eventStore, filter, maxSequenceNumber, result.Event); err != nil {
			return vendor.Fulfillment{}, false, err
		}

		return vendor.Fulfillment{}, false, result.HasError()
	}

	patron := core.ProjectPatronActivity(history, command.PatronID.String()).Patron

	fulfillment, err := h.api.Fulfill(ctx, patron, command.Pool, ResolveMechanism(history, command))
	if err != nil {
		return vendor.Fulfillment{}, false, err
	}

	if result.IsIdempotent() {
		return fulfillment, true, nil
	}

	if err = shell.AppendEvent(ctx, h.eventStore, filter, maxSequenceNumber, result.Event); err != nil {
		return vendor.Fulfillment{}, false, err
	}

	return fulfillment, false, nil
}
