// Package sdk is a Go client for the companion upload gateway. It wraps the
// REST endpoints one to one and adds a resumable file uploader on top.
package sdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the companion SDK client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new SDK client.
// baseURL is the base URL of the gateway, e.g., "http://localhost:3020"
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// NewClientWithHTTPClient creates an SDK client with a custom HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type CreateFolderResponse struct {
	Created bool `json:"created"`
}

// CreateUploadFolder makes sure the session folder exists on the store.
func (c *Client) CreateUploadFolder(ctx context.Context, sessionID string) (bool, error) {
	var out CreateFolderResponse
	err := c.doJSON(ctx, http.MethodPost, "/create-upload-folder", nil,
		map[string]string{"uuid": sessionID}, &out)
	return out.Created, err
}

type ListUploadsResponse struct {
	UUIDs []string `json:"uuids"`
}

// ListUploads enumerates the known upload sessions.
func (c *Client) ListUploads(ctx context.Context) ([]string, error) {
	var out ListUploadsResponse
	if err := c.doGET(ctx, "/list-uploads", nil, &out); err != nil {
		return nil, err
	}
	return out.UUIDs, nil
}

type CheckFilesResponse struct {
	ExistingFiles []string `json:"existingFiles"`
}

// CheckFiles reports which of the filenames already exist under the session.
func (c *Client) CheckFiles(ctx context.Context, sessionID string, files []string) ([]string, error) {
	var out CheckFilesResponse
	err := c.doJSON(ctx, http.MethodPost, "/check-files", nil, map[string]any{
		"uuid":  sessionID,
		"files": files,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.ExistingFiles, nil
}

type SignedUpload struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// SignUpload requests a presigned single-shot PUT URL.
func (c *Client) SignUpload(ctx context.Context, sessionID, filename, contentType string) (*SignedUpload, error) {
	query := url.Values{}
	query.Set("filename", filename)
	if sessionID != "" {
		query.Set("uuid", sessionID)
	}
	if contentType != "" {
		query.Set("type", contentType)
	}

	var out SignedUpload
	if err := c.doGET(ctx, "/s3/params", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type MultipartUpload struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// CreateMultipart opens a multipart upload for the file.
func (c *Client) CreateMultipart(ctx context.Context, sessionID, filename, contentType string) (*MultipartUpload, error) {
	var out MultipartUpload
	err := c.doJSON(ctx, http.MethodPost, "/s3/multipart", nil, map[string]any{
		"filename": filename,
		"type":     contentType,
		"metadata": map[string]string{"uuid": sessionID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type SignedPart struct {
	URL string `json:"url"`
}

// SignPart requests a presigned PUT URL for one part.
func (c *Client) SignPart(ctx context.Context, uploadID, key string, partNumber int32) (*SignedPart, error) {
	query := url.Values{}
	query.Set("key", key)

	path := "/s3/multipart/" + url.PathEscape(uploadID) + "/" + strconv.Itoa(int(partNumber))
	var out SignedPart
	if err := c.doGET(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Part struct {
	PartNumber int32  `json:"partNumber"`
	ETag       string `json:"eTag"`
}

type CompletedUpload struct {
	Location string `json:"location"`
}

// CompleteMultipart finalizes the upload with the ordered part list.
func (c *Client) CompleteMultipart(ctx context.Context, uploadID, key string, parts []Part) (*CompletedUpload, error) {
	query := url.Values{}
	query.Set("key", key)

	path := "/s3/multipart/" + url.PathEscape(uploadID) + "/complete"
	var out CompletedUpload
	err := c.doJSON(ctx, http.MethodPost, path, query, map[string]any{"parts": parts}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type AbortResponse struct {
	Aborted bool `json:"aborted"`
}

// AbortMultipart cancels the upload and releases its uncommitted parts.
func (c *Client) AbortMultipart(ctx context.Context, uploadID, key string) (bool, error) {
	query := url.Values{}
	query.Set("key", key)

	path := "/s3/multipart/" + url.PathEscape(uploadID)
	var out AbortResponse
	err := c.doJSON(ctx, http.MethodDelete, path, query, nil, &out)
	return out.Aborted, err
}
