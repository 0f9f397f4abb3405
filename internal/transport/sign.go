package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/companion/internal/service"
	"github.com/beanbocchi/companion/pkg/response"
)

type SignUploadRequest struct {
	Filename string `query:"filename" validate:"required"`
	UUID     string `query:"uuid"`
	Type     string `query:"type"`
}

func (h *Handler) SignUpload(c echo.Context) error {
	var req SignUploadRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	signed, err := h.svc.SignPut(c.Request().Context(), service.SignPutParams{
		SessionID:   req.UUID,
		Filename:    req.Filename,
		ContentType: req.Type,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, signed)
}
