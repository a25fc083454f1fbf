package patronactivity

import (
	"context"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell"
)

// QueryHandler runs Query -> Project. External wrappers handle all observability concerns.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle projects the current activity of the queried patron.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Activity, error) {
	history, maxSequenceNumber, err := shell.LoadHistory(ctx, h.eventStore, BuildEventFilter(query.PatronID))
	if err != nil {
		return Activity{}, err
	}

	return ProjectActivity(history, query, maxSequenceNumber), nil
}
