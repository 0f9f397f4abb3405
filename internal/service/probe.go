package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/beanbocchi/companion/internal/model"
	"github.com/beanbocchi/companion/pkg/validator"
)

// checkConcurrency bounds the parallel HEAD requests per probe call.
const checkConcurrency = 8

type CheckExistingParams struct {
	SessionID string   `validate:"required"`
	Files     []string `validate:"dive,required"`
}

// CheckExisting reports which of the proposed filenames already exist under
// the session prefix. Checks run in parallel; a file counts as existing only
// on an explicit positive answer, every per-file failure is treated as
// absent. The result is a snapshot, not a guarantee.
func (s *Service) CheckExisting(ctx context.Context, params CheckExistingParams) ([]string, error) {
	if err := validator.Validate(params); err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		existing = make([]string, 0, len(params.Files))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	seen := make(map[string]struct{}, len(params.Files))
	for _, name := range params.Files {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		g.Go(func() error {
			key, err := model.ObjectKey(params.SessionID, name)
			if err != nil {
				return nil
			}

			ok, err := s.store.Exists(ctx, key)
			if err != nil {
				slog.Debug("existence check failed, treating file as absent", "key", key, "error", err)
				return nil
			}
			if ok {
				mu.Lock()
				existing = append(existing, name)
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors, per-file failures just mean "absent".
	_ = g.Wait()

	return existing, nil
}
