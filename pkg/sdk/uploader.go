package sdk

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPartSize    = 16 * 1024 * 1024
	minPartSize        = 5 * 1024 * 1024
	defaultConcurrency = 4
	defaultContentType = "application/octet-stream"
)

// UploadParams is the request parameters for UploadFile
type UploadParams struct {
	// SessionID groups files of one upload batch; generated when empty.
	SessionID string
	// Path is the local file to upload.
	Path string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// PartSize is the multipart chunk size in bytes; files at or below it
	// go through a single presigned PUT. Minimum 5 MiB.
	PartSize int64
	// Concurrency bounds the parallel part uploads.
	Concurrency int
	// Force re-uploads the file even when it already exists on the store.
	Force bool
}

// UploadResult is the outcome of UploadFile
type UploadResult struct {
	SessionID string
	Key       string
	Location  string
	Checksum  string
	Size      int64
	Parts     int
	// Skipped is true when the file already existed and Force was off.
	Skipped bool
}

// UploadFile uploads one local file through the gateway: ensure the session
// folder, skip files the store already has, then either a single presigned
// PUT or a concurrent multipart upload depending on size. On any multipart
// failure the upload is aborted before returning.
func (c *Client) UploadFile(ctx context.Context, params UploadParams) (*UploadResult, error) {
	stat, err := os.Stat(params.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", params.Path, err)
	}

	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	partSize := params.PartSize
	if partSize <= 0 {
		partSize = defaultPartSize
	}
	if partSize < minPartSize {
		partSize = minPartSize
	}

	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	name := filepath.Base(params.Path)
	size := stat.Size()

	checksum, err := checksumFile(params.Path)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		SessionID: sessionID,
		Key:       sessionID + "/" + name,
		Checksum:  checksum,
		Size:      size,
	}

	if _, err := c.CreateUploadFolder(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("create upload folder: %w", err)
	}

	existing, err := c.CheckFiles(ctx, sessionID, []string{name})
	if err != nil {
		return nil, fmt.Errorf("check existing files: %w", err)
	}
	if slices.Contains(existing, name) && !params.Force {
		result.Skipped = true
		return result, nil
	}

	if size <= partSize {
		if err := c.uploadSingle(ctx, sessionID, name, contentType, params.Path, size); err != nil {
			return nil, err
		}
		result.Parts = 1
		return result, nil
	}

	location, parts, err := c.uploadMultipart(ctx, sessionID, name, contentType, params.Path, size, partSize, concurrency)
	if err != nil {
		return nil, err
	}
	result.Location = location
	result.Parts = parts
	return result, nil
}

func (c *Client) uploadSingle(ctx context.Context, sessionID, name, contentType, path string, size int64) error {
	signed, err := c.SignUpload(ctx, sessionID, name, contentType)
	if err != nil {
		return fmt.Errorf("sign upload: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, signed.Method, signed.URL, f)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = size
	for k, v := range signed.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload %q rejected by store: %d %s", name, resp.StatusCode, body)
	}
	return nil
}

func (c *Client) uploadMultipart(ctx context.Context, sessionID, name, contentType, path string, size, partSize int64, concurrency int) (string, int, error) {
	upload, err := c.CreateMultipart(ctx, sessionID, name, contentType)
	if err != nil {
		return "", 0, fmt.Errorf("create multipart upload: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	numParts := int((size + partSize - 1) / partSize)
	parts := make([]Part, numParts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range numParts {
		partNumber := int32(i + 1)
		offset := int64(i) * partSize
		length := min(partSize, size-offset)

		g.Go(func() error {
			etag, err := c.uploadPart(gctx, upload, partNumber, io.NewSectionReader(f, offset, length), length)
			if err != nil {
				return err
			}
			parts[i] = Part{PartNumber: partNumber, ETag: etag}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if _, abortErr := c.AbortMultipart(ctx, upload.UploadID, upload.Key); abortErr != nil {
			return "", 0, fmt.Errorf("%w (abort also failed: %v)", err, abortErr)
		}
		return "", 0, err
	}

	completed, err := c.CompleteMultipart(ctx, upload.UploadID, upload.Key, parts)
	if err != nil {
		_, _ = c.AbortMultipart(ctx, upload.UploadID, upload.Key)
		return "", 0, fmt.Errorf("complete multipart upload: %w", err)
	}

	return completed.Location, numParts, nil
}

func (c *Client) uploadPart(ctx context.Context, upload *MultipartUpload, partNumber int32, body io.Reader, length int64) (string, error) {
	signed, err := c.SignPart(ctx, upload.UploadID, upload.Key, partNumber)
	if err != nil {
		return "", fmt.Errorf("sign part %d: %w", partNumber, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signed.URL, body)
	if err != nil {
		return "", fmt.Errorf("create part request: %w", err)
	}
	req.ContentLength = length

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload part %d: %w", partNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("part %d rejected by store: %d %s", partNumber, resp.StatusCode, msg)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return "", fmt.Errorf("part %d: store returned no ETag", partNumber)
	}
	return etag, nil
}

// checksumFile computes the blake3 hash of the file, reported in the upload
// result so callers can verify archives end to end.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash %q: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
