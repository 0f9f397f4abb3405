package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanbocchi/companion/internal/client/objectstore"
	"github.com/beanbocchi/companion/internal/events"
)

const defaultPresignTTL = 3600 * time.Second

type Config struct {
	// PresignTTL is the validity window of every issued URL.
	PresignTTL time.Duration
	// SingleActiveUpload rejects a second CreateMultipart for a key that
	// already has a registered in-flight upload.
	SingleActiveUpload bool
}

// Service implements the upload gateway operations. It holds no upload state
// of its own besides the advisory in-process registry; the object store is
// the source of truth for every multipart upload.
type Service struct {
	store      objectstore.Client
	events     *events.Recorder
	registry   *uploadRegistry
	presignTTL time.Duration
}

func NewService(store objectstore.Client, recorder *events.Recorder, cfg Config) *Service {
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	var registry *uploadRegistry
	if cfg.SingleActiveUpload {
		registry = newUploadRegistry()
	}

	return &Service{
		store:      store,
		events:     recorder,
		registry:   registry,
		presignTTL: ttl,
	}
}

// record appends a lifecycle event. Recording is best-effort: failures are
// logged and never propagated.
func (s *Service) record(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, ev); err != nil {
		slog.Warn("failed to record upload event", "type", ev.Type, "key", ev.Key, "error", err)
	}
}
