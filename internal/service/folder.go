package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beanbocchi/companion/internal/events"
	"github.com/beanbocchi/companion/pkg/validator"
)

type EnsureFolderParams struct {
	SessionID string `validate:"required"`
}

// EnsureFolder writes the zero-byte "{sessionID}/" marker object. The call is
// idempotent and advisory: most stores materialize the folder on the first
// real object write anyway, so storage failures are logged and swallowed and
// the caller's flow continues.
func (s *Service) EnsureFolder(ctx context.Context, params EnsureFolderParams) (bool, error) {
	if err := validator.Validate(params); err != nil {
		return false, err
	}

	prefix := params.SessionID + "/"
	if err := s.store.EnsureFolder(ctx, prefix); err != nil {
		slog.Warn("could not create upload folder", "prefix", prefix, "error", err)
		return true, nil
	}

	slog.Info("created upload folder", "prefix", prefix)
	s.record(ctx, events.Event{
		Type:      events.TypeFolderCreated,
		SessionID: params.SessionID,
		Key:       prefix,
	})
	return true, nil
}

// ListSessions enumerates the known upload sessions, i.e. the top-level
// folders of the bucket with the trailing delimiter stripped.
func (s *Service) ListSessions(ctx context.Context) ([]string, error) {
	prefixes, err := s.store.ListPrefixes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list upload sessions: %w", err)
	}

	sessions := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		sessions = append(sessions, strings.TrimSuffix(p, "/"))
	}
	return sessions, nil
}
