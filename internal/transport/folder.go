package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/companion/internal/service"
	"github.com/beanbocchi/companion/pkg/response"
)

type CreateUploadFolderRequest struct {
	UUID string `json:"uuid" validate:"required"`
}

type CreateUploadFolderResponse struct {
	Created bool `json:"created"`
}

func (h *Handler) CreateUploadFolder(c echo.Context) error {
	var req CreateUploadFolderRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	created, err := h.svc.EnsureFolder(c.Request().Context(), service.EnsureFolderParams{
		SessionID: req.UUID,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, CreateUploadFolderResponse{Created: created})
}

type ListUploadsResponse struct {
	UUIDs []string `json:"uuids"`
}

func (h *Handler) ListUploads(c echo.Context) error {
	sessions, err := h.svc.ListSessions(c.Request().Context())
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, ListUploadsResponse{UUIDs: sessions})
}

type CheckFilesRequest struct {
	UUID  string   `json:"uuid" validate:"required"`
	Files []string `json:"files"`
}

type CheckFilesResponse struct {
	ExistingFiles []string `json:"existingFiles"`
}

func (h *Handler) CheckFiles(c echo.Context) error {
	var req CheckFilesRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	existing, err := h.svc.CheckExisting(c.Request().Context(), service.CheckExistingParams{
		SessionID: req.UUID,
		Files:     req.Files,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, CheckFilesResponse{ExistingFiles: existing})
}
