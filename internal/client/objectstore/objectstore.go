// Package objectstore defines the storage-facing surface of the gateway.
// Implementations are capability-scoped: the gateway only ever creates
// empty marker objects, probes existence, lists top-level prefixes, and
// drives presigned single-shot and multipart uploads. It never reads or
// writes file bytes itself.
package objectstore

import (
	"context"
	"time"
)

// Part identifies one uploaded chunk of a multipart upload. The ETag is the
// opaque integrity token the storage layer returned to the uploading client.
type Part struct {
	PartNumber int32
	ETag       string
}

type Client interface {
	// EnsureFolder writes a zero-byte marker object at the given prefix.
	EnsureFolder(ctx context.Context, prefix string) error

	// Exists reports whether an object with the given key exists. Only an
	// explicit not-found answer yields (false, nil); transport failures are
	// returned as errors.
	Exists(ctx context.Context, key string) (bool, error)

	// ListPrefixes returns the top-level "folders" (common prefixes,
	// delimiter "/") of the bucket, trailing delimiter included.
	ListPrefixes(ctx context.Context) ([]string, error)

	// PresignPut returns a time-bounded URL granting a single PUT of the
	// full object body with the given content type.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// CreateMultipart allocates a new multipart upload and returns its
	// opaque upload ID.
	CreateMultipart(ctx context.Context, key, contentType string) (string, error)

	// PresignPart returns a time-bounded PUT URL scoped to exactly one
	// (key, uploadID, partNumber) slot.
	PresignPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error)

	// CompleteMultipart assembles the uploaded parts into one object and
	// returns its final location. Parts must already be sorted ascending
	// by part number.
	CompleteMultipart(ctx context.Context, key, uploadID string, parts []Part) (string, error)

	// AbortMultipart releases all uncommitted part data and invalidates
	// the upload ID.
	AbortMultipart(ctx context.Context, key, uploadID string) error
}
