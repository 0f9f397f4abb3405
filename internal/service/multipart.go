package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guregu/null/v6"

	"github.com/beanbocchi/companion/internal/client/objectstore"
	"github.com/beanbocchi/companion/internal/events"
	"github.com/beanbocchi/companion/internal/model"
	"github.com/beanbocchi/companion/pkg/validator"
)

type CreateMultipartParams struct {
	SessionID   string
	Filename    string `validate:"required"`
	ContentType string `validate:"required"`
}

type MultipartUpload struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// CreateMultipart opens a new multipart upload for the resolved key. The
// returned uploadId and key are opaque to the gateway afterwards: the client
// must echo them back on every subsequent call.
func (s *Service) CreateMultipart(ctx context.Context, params CreateMultipartParams) (MultipartUpload, error) {
	if err := validator.Validate(params); err != nil {
		return MultipartUpload{}, err
	}

	key, err := model.ObjectKey(params.SessionID, params.Filename)
	if err != nil {
		return MultipartUpload{}, err
	}

	if s.registry != nil && !s.registry.reserve(key) {
		return MultipartUpload{}, model.ErrUploadConflict.Fmt(key)
	}

	uploadID, err := s.store.CreateMultipart(ctx, key, params.ContentType)
	if err != nil {
		if s.registry != nil {
			s.registry.release(key, "")
		}
		return MultipartUpload{}, fmt.Errorf("create multipart upload for %q: %w", key, err)
	}

	if s.registry != nil {
		s.registry.bind(key, uploadID)
	}

	slog.Info("opened multipart upload", "key", key, "uploadId", uploadID)
	s.record(ctx, events.Event{
		Type:      events.TypeMultipartOpened,
		SessionID: params.SessionID,
		Key:       key,
		UploadID:  uploadID,
		Detail:    params.ContentType,
	})

	return MultipartUpload{UploadID: uploadID, Key: key}, nil
}

type SignPartParams struct {
	UploadID   string `validate:"required"`
	Key        string `validate:"required"`
	PartNumber int32  `validate:"required,min=1"`
	// ContentType is accepted for wire compatibility but not signed:
	// UploadPart requests carry no Content-Type.
	ContentType null.String
}

type SignedPart struct {
	URL string `json:"url"`
}

// SignPart issues a presigned PUT URL for one part slot. Re-signing the same
// part number is allowed and yields a fresh URL for the same slot.
func (s *Service) SignPart(ctx context.Context, params SignPartParams) (SignedPart, error) {
	if err := validator.Validate(params); err != nil {
		return SignedPart{}, err
	}

	url, err := s.store.PresignPart(ctx, params.Key, params.UploadID, params.PartNumber, s.presignTTL)
	if err != nil {
		return SignedPart{}, fmt.Errorf("sign part %d of %q: %w", params.PartNumber, params.Key, err)
	}

	s.record(ctx, events.Event{
		Type:     events.TypePartSigned,
		Key:      params.Key,
		UploadID: params.UploadID,
		Detail:   fmt.Sprintf("part %d", params.PartNumber),
	})

	return SignedPart{URL: url}, nil
}

type CompletedPart struct {
	PartNumber int32  `json:"partNumber" validate:"required,min=1"`
	ETag       string `json:"eTag" validate:"required"`
}

type CompleteMultipartParams struct {
	UploadID string          `validate:"required"`
	Key      string          `validate:"required"`
	Parts    []CompletedPart `validate:"required,min=1,dive"`
}

type CompletedUpload struct {
	Location string `json:"location"`
}

// CompleteMultipart assembles the uploaded parts into the final object. The
// part list must be sorted ascending by part number with no duplicates; a
// malformed list is rejected before any storage call. Storage failures here
// are terminal for the upload: the caller must abort and start over.
func (s *Service) CompleteMultipart(ctx context.Context, params CompleteMultipartParams) (CompletedUpload, error) {
	if err := validator.Validate(params); err != nil {
		return CompletedUpload{}, err
	}
	if err := validatePartOrder(params.Parts); err != nil {
		return CompletedUpload{}, err
	}

	parts := make([]objectstore.Part, 0, len(params.Parts))
	for _, p := range params.Parts {
		parts = append(parts, objectstore.Part{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	location, err := s.store.CompleteMultipart(ctx, params.Key, params.UploadID, parts)
	if err != nil {
		return CompletedUpload{}, fmt.Errorf("complete multipart upload %q: %w", params.Key, err)
	}

	if s.registry != nil {
		s.registry.release(params.Key, params.UploadID)
	}

	slog.Info("completed multipart upload", "key", params.Key, "uploadId", params.UploadID, "parts", len(parts))
	s.record(ctx, events.Event{
		Type:     events.TypeMultipartCompleted,
		Key:      params.Key,
		UploadID: params.UploadID,
		Detail:   fmt.Sprintf("%d parts", len(parts)),
	})

	return CompletedUpload{Location: location}, nil
}

func validatePartOrder(parts []CompletedPart) error {
	for i := 1; i < len(parts); i++ {
		prev, cur := parts[i-1].PartNumber, parts[i].PartNumber
		if cur == prev {
			return model.ErrMalformedParts.Fmt(fmt.Sprintf("duplicate part number %d", cur))
		}
		if cur < prev {
			return model.ErrMalformedParts.Fmt("part numbers must be sorted ascending")
		}
	}
	return nil
}

type AbortMultipartParams struct {
	UploadID string `validate:"required"`
	Key      string `validate:"required"`
}

// AbortMultipart releases all uncommitted part data. Aborting an upload that
// is already aborted or completed is fine from the caller's perspective: the
// storage error is logged and swallowed.
func (s *Service) AbortMultipart(ctx context.Context, params AbortMultipartParams) (bool, error) {
	if err := validator.Validate(params); err != nil {
		return false, err
	}

	if err := s.store.AbortMultipart(ctx, params.Key, params.UploadID); err != nil {
		slog.Warn("abort multipart upload", "key", params.Key, "uploadId", params.UploadID, "error", err)
	}

	if s.registry != nil {
		s.registry.release(params.Key, params.UploadID)
	}

	s.record(ctx, events.Event{
		Type:     events.TypeMultipartAborted,
		Key:      params.Key,
		UploadID: params.UploadID,
	})

	return true, nil
}
