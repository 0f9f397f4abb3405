package service

import (
	"context"
	"fmt"

	"github.com/beanbocchi/companion/internal/events"
	"github.com/beanbocchi/companion/internal/model"
)

type ListEventsParams struct {
	model.PaginationParams
}

// ListEvents returns recorded lifecycle events, newest first. Returns an
// empty list when event recording is disabled.
func (s *Service) ListEvents(ctx context.Context, params ListEventsParams) ([]events.Event, error) {
	if s.events == nil {
		return []events.Event{}, nil
	}

	evs, err := s.events.List(ctx, params.GetLimit(), params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list upload events: %w", err)
	}
	return evs, nil
}
