package transport

import (
	"net/http"

	"github.com/guregu/null/v6"
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/companion/internal/service"
	"github.com/beanbocchi/companion/pkg/response"
)

type MultipartMetadata struct {
	UUID string `json:"uuid"`
}

type CreateMultipartRequest struct {
	Filename string            `json:"filename" validate:"required"`
	Type     string            `json:"type" validate:"required"`
	Metadata MultipartMetadata `json:"metadata"`
}

func (h *Handler) CreateMultipart(c echo.Context) error {
	var req CreateMultipartRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	upload, err := h.svc.CreateMultipart(c.Request().Context(), service.CreateMultipartParams{
		SessionID:   req.Metadata.UUID,
		Filename:    req.Filename,
		ContentType: req.Type,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, upload)
}

type SignPartRequest struct {
	UploadID   string      `param:"uploadId" validate:"required"`
	PartNumber int32       `param:"partNumber" validate:"required,min=1"`
	Key        string      `query:"key" validate:"required"`
	Type       null.String `query:"type"`
}

func (h *Handler) SignPart(c echo.Context) error {
	var req SignPartRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	signed, err := h.svc.SignPart(c.Request().Context(), service.SignPartParams{
		UploadID:    req.UploadID,
		Key:         req.Key,
		PartNumber:  req.PartNumber,
		ContentType: req.Type,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, signed)
}

type CompleteMultipartRequest struct {
	UploadID string                  `param:"uploadId" validate:"required"`
	Key      string                  `query:"key" validate:"required"`
	Parts    []service.CompletedPart `json:"parts" validate:"required,min=1,dive"`
}

func (h *Handler) CompleteMultipart(c echo.Context) error {
	var req CompleteMultipartRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	completed, err := h.svc.CompleteMultipart(c.Request().Context(), service.CompleteMultipartParams{
		UploadID: req.UploadID,
		Key:      req.Key,
		Parts:    req.Parts,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, completed)
}

type AbortMultipartRequest struct {
	UploadID string `param:"uploadId" validate:"required"`
	Key      string `query:"key" validate:"required"`
}

type AbortMultipartResponse struct {
	Aborted bool `json:"aborted"`
}

func (h *Handler) AbortMultipart(c echo.Context) error {
	var req AbortMultipartRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	aborted, err := h.svc.AbortMultipart(c.Request().Context(), service.AbortMultipartParams{
		UploadID: req.UploadID,
		Key:      req.Key,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, AbortMultipartResponse{Aborted: aborted})
}
