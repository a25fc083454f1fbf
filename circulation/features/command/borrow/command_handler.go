package borrow

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/policy"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/vendor"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// CommandHandler runs Query -> Decide -> vendor call -> Append with retry.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	eventStore   shell.EventStore
	api          vendor.CirculationAPI
	policy       policy.Configuration
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
func NewCommandHandler(
	eventStore shell.EventStore,
	api vendor.CirculationAPI,
	cfg policy.Configuration,
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		eventStore: eventStore,
		api:        api,
		policy:     cfg,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle borrows the pool, or places a hold when the vendor has no copy available.
// A concurrency conflict re-runs the whole cycle, including the vendor call, which
// vendors treat idempotently for the same patron and pool.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	filter := BuildEventFilter(command.PatronID, command.Pool.ID)

	history, maxSequenceNumber, err := shell.LoadHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	result := Decide(history, command, h.policy)

	if result.IsIdempotent() {
		return true, nil
	}

	if result.HasError() != nil {
		return false, h.appendFailure(ctx, filter, maxSequenceNumber, result)
	}

	patron := core.ProjectPatronActivity(history, command.PatronID.String()).Patron

	loan, err := h.api.Checkout(ctx, patron, command.Pool)
	if errors.Is(err, vendor.ErrNoAvailableCopies) {
		return h.placeHold(ctx, command, patron, history, filter, maxSequenceNumber)
	}

	if err != nil {
		return false, err
	}

	started := result.Event.(core.LoanStarted)
	if !loan.End.IsZero() {
		started.EndsAt = core.ToOccurredAt(loan.End)
	}

	if !loan.Start.IsZero() {
		started.OccurredAt = core.ToOccurredAt(loan.Start)
	}

	return false, h.append(ctx, filter, maxSequenceNumber, started)
}

func (h CommandHandler) placeHold(
	ctx context.Context,
	command Command,
	patron core.Patron,
	history core.DomainEvents,
	filter eventstore.Filter,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
) (bool, error) {

	result := DecideHold(history, command, h.policy)

	if result.IsIdempotent() {
		return true, nil
	}

	if result.HasError() != nil {
		return false, h.appendFailure(ctx, filter, maxSequenceNumber, result)
	}

	hold, err := h.api.PlaceHold(ctx, patron, command.Pool)
	if err != nil {
		return false, err
	}

	placed := result.Event.(core.HoldPlaced)
	placed.Position = hold.Position

	if !hold.Start.IsZero() {
		placed.OccurredAt = core.ToOccurredAt(hold.Start)
	}

	return false, h.append(ctx, filter, maxSequenceNumber, placed)
}

func (h CommandHandler) append(
	ctx context.Context,
	filter eventstore.Filter,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.DomainEvent,
) error {

	return shell.AppendEvent(ctx, h.eventStore, filter, maxSequenceNumber, event)
}

// appendFailure stores the failure event and returns the decision's problem.
func (h CommandHandler) appendFailure(
	ctx context.Context,
	filter eventstore.Filter,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	result core.DecisionResult,
) error {

	if err := h.append(ctx, filter, maxSequenceNumber, result.Event); err != nil {
		return err
	}

	return result.HasError()
}
