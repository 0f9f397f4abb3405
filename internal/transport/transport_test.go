package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/companion/internal/client/objectstore"
	"github.com/beanbocchi/companion/internal/service"
)

// stubStore is a stub implementation of objectstore.Client for testing
type stubStore struct {
	mu sync.Mutex

	objects map[string]bool

	folderCalls int
	createCalls int
}

func newStubStore() *stubStore {
	return &stubStore{objects: make(map[string]bool)}
}

func (s *stubStore) EnsureFolder(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folderCalls++
	return nil
}

func (s *stubStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key], nil
}

func (s *stubStore) ListPrefixes(ctx context.Context) ([]string, error) {
	return []string{"abc-123/"}, nil
}

func (s *stubStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return "https://store.test/" + key + "?signature=put", nil
}

func (s *stubStore) CreateMultipart(ctx context.Context, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	return "upload-1", nil
}

func (s *stubStore) PresignPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	return "https://store.test/" + key + "?signature=part", nil
}

func (s *stubStore) CompleteMultipart(ctx context.Context, key, uploadID string, parts []objectstore.Part) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = true
	return "https://store.test/" + key, nil
}

func (s *stubStore) AbortMultipart(ctx context.Context, key, uploadID string) error {
	return nil
}

func setupTest(t *testing.T) (*echo.Echo, *stubStore) {
	t.Helper()

	store := newStubStore()
	svc := service.NewService(store, nil, service.Config{SingleActiveUpload: true})

	e, err := NewEcho(svc)
	if err != nil {
		t.Fatalf("failed to set up server: %v", err)
	}
	return e, store
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not valid JSON: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	e, _ := setupTest(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateUploadFolderEndpoint(t *testing.T) {
	t.Run("creates the folder", func(t *testing.T) {
		e, store := setupTest(t)

		rec := doJSON(e, http.MethodPost, "/create-upload-folder", `{"uuid":"abc-123"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := decode(t, rec)["created"]; got != true {
			t.Errorf("expected created=true, got %v", got)
		}
		if store.folderCalls != 1 {
			t.Errorf("expected one folder call, got %d", store.folderCalls)
		}
	})

	t.Run("missing uuid is a 400 with an error body", func(t *testing.T) {
		e, store := setupTest(t)

		rec := doJSON(e, http.MethodPost, "/create-upload-folder", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if msg, ok := decode(t, rec)["error"].(string); !ok || msg == "" {
			t.Error("expected a non-empty error field")
		}
		if store.folderCalls != 0 {
			t.Error("store must not be called for invalid input")
		}
	})
}

func TestListUploadsEndpoint(t *testing.T) {
	e, _ := setupTest(t)

	rec := doJSON(e, http.MethodGet, "/list-uploads", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	uuids, ok := decode(t, rec)["uuids"].([]any)
	if !ok || len(uuids) != 1 || uuids[0] != "abc-123" {
		t.Errorf("expected [abc-123], got %v", uuids)
	}
}

func TestCheckFilesEndpoint(t *testing.T) {
	t.Run("reports only existing files", func(t *testing.T) {
		e, store := setupTest(t)
		store.objects["abc-123/a.bin"] = true

		rec := doJSON(e, http.MethodPost, "/check-files", `{"uuid":"abc-123","files":["a.bin","b.bin"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		existing, ok := decode(t, rec)["existingFiles"].([]any)
		if !ok || len(existing) != 1 || existing[0] != "a.bin" {
			t.Errorf("expected [a.bin], got %v", existing)
		}
	})

	t.Run("missing uuid is a 400", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodPost, "/check-files", `{"files":["a.bin"]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestSignUploadEndpoint(t *testing.T) {
	t.Run("returns method, url and headers", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodGet, "/s3/params?filename=a.bin&uuid=abc-123&type=text/plain", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decode(t, rec)
		if body["method"] != "PUT" {
			t.Errorf("expected method PUT, got %v", body["method"])
		}
		if url, _ := body["url"].(string); !strings.Contains(url, "abc-123/a.bin") {
			t.Errorf("expected the url to carry the full key, got %v", body["url"])
		}
		headers, _ := body["headers"].(map[string]any)
		if headers["Content-Type"] != "text/plain" {
			t.Errorf("expected the content type to round-trip, got %v", headers)
		}
	})

	t.Run("missing filename is a 400", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodGet, "/s3/params?uuid=abc-123", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestMultipartEndpoints(t *testing.T) {
	t.Run("full lifecycle", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodPost, "/s3/multipart",
			`{"filename":"big.bin","type":"application/octet-stream","metadata":{"uuid":"abc-123"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		created := decode(t, rec)
		uploadID, _ := created["uploadId"].(string)
		key, _ := created["key"].(string)
		if uploadID == "" || key != "abc-123/big.bin" {
			t.Fatalf("unexpected create response: %v", created)
		}

		rec = doJSON(e, http.MethodGet, "/s3/multipart/"+uploadID+"/1?key="+key, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("sign part: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if url, _ := decode(t, rec)["url"].(string); url == "" {
			t.Fatal("expected a part url")
		}

		rec = doJSON(e, http.MethodPost, "/s3/multipart/"+uploadID+"/complete?key="+key,
			`{"parts":[{"partNumber":1,"eTag":"e1"},{"partNumber":2,"eTag":"e2"}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("complete: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if loc, _ := decode(t, rec)["location"].(string); loc == "" {
			t.Fatal("expected a location")
		}
	})

	t.Run("missing filename is a 400 and never reaches the store", func(t *testing.T) {
		e, store := setupTest(t)

		rec := doJSON(e, http.MethodPost, "/s3/multipart",
			`{"type":"application/octet-stream","metadata":{"uuid":"abc-123"}}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if store.createCalls != 0 {
			t.Error("store must not be called for invalid input")
		}
	})

	t.Run("second create for the same key is a 409", func(t *testing.T) {
		e, _ := setupTest(t)

		body := `{"filename":"big.bin","type":"application/octet-stream","metadata":{"uuid":"abc-123"}}`
		if rec := doJSON(e, http.MethodPost, "/s3/multipart", body); rec.Code != http.StatusOK {
			t.Fatalf("first create: expected 200, got %d", rec.Code)
		}
		rec := doJSON(e, http.MethodPost, "/s3/multipart", body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		if msg, _ := decode(t, rec)["error"].(string); !strings.Contains(msg, "abc-123/big.bin") {
			t.Errorf("expected the conflicting key in the error, got %q", msg)
		}
	})

	t.Run("sign part without key is a 400", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodGet, "/s3/multipart/upload-1/1", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unsorted part list is a 400", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodPost, "/s3/multipart/upload-1/complete?key=abc-123/big.bin",
			`{"parts":[{"partNumber":2,"eTag":"e2"},{"partNumber":1,"eTag":"e1"}]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("abort always succeeds for the caller", func(t *testing.T) {
		e, _ := setupTest(t)

		rec := doJSON(e, http.MethodDelete, "/s3/multipart/upload-1?key=abc-123/big.bin", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := decode(t, rec)["aborted"]; got != true {
			t.Errorf("expected aborted=true, got %v", got)
		}
	})
}

func TestListEventsEndpoint(t *testing.T) {
	e, _ := setupTest(t)

	// No recorder wired: the endpoint reports an empty list.
	rec := doJSON(e, http.MethodGet, "/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	events, ok := decode(t, rec)["events"].([]any)
	if !ok || len(events) != 0 {
		t.Errorf("expected an empty event list, got %v", events)
	}
}
