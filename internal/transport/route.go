package transport

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/companion/internal/model"
	"github.com/beanbocchi/companion/internal/service"
)

type Handler struct {
	svc *service.Service
}

func SetupRoute(e *echo.Echo, svc *service.Service) {
	h := &Handler{svc: svc}

	e.POST("/create-upload-folder", h.CreateUploadFolder)
	e.GET("/list-uploads", h.ListUploads)
	e.POST("/check-files", h.CheckFiles)

	e.GET("/s3/params", h.SignUpload)
	e.POST("/s3/multipart", h.CreateMultipart)
	e.GET("/s3/multipart/:uploadId/:partNumber", h.SignPart)
	e.POST("/s3/multipart/:uploadId/complete", h.CompleteMultipart)
	e.DELETE("/s3/multipart/:uploadId", h.AbortMultipart)

	e.GET("/events", h.ListEvents)
}

// statusFor maps service errors to HTTP statuses: coded validation errors
// are the caller's fault, a registry conflict is 409, everything else is a
// storage failure surfaced as 500.
func statusFor(err error) int {
	var coded model.Error
	if errors.As(err, &coded) {
		switch coded.Code() {
		case model.ErrValidation.Code(), model.ErrMissingField.Code(), model.ErrMalformedParts.Code():
			return http.StatusBadRequest
		case model.ErrUploadConflict.Code():
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}
