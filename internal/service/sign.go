package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/beanbocchi/companion/internal/model"
	"github.com/beanbocchi/companion/pkg/validator"
)

const defaultContentType = "application/octet-stream"

type SignPutParams struct {
	SessionID   string
	Filename    string `validate:"required"`
	ContentType string
}

type SignedUpload struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// SignPut issues one presigned PUT URL for a full-body upload of a small
// file. The gateway does not track whether the URL is ever used; after the
// expiry window the storage layer rejects it.
func (s *Service) SignPut(ctx context.Context, params SignPutParams) (SignedUpload, error) {
	if err := validator.Validate(params); err != nil {
		return SignedUpload{}, err
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	key, err := model.ObjectKey(params.SessionID, params.Filename)
	if err != nil {
		return SignedUpload{}, err
	}

	url, err := s.store.PresignPut(ctx, key, contentType, s.presignTTL)
	if err != nil {
		return SignedUpload{}, fmt.Errorf("sign upload for %q: %w", key, err)
	}

	slog.Debug("signed single-shot upload", "key", key, "contentType", contentType)
	return SignedUpload{
		Method:  http.MethodPut,
		URL:     url,
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}
