package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/companion/internal/events"
	"github.com/beanbocchi/companion/internal/model"
	"github.com/beanbocchi/companion/internal/service"
	"github.com/beanbocchi/companion/pkg/response"
)

type ListEventsRequest struct {
	model.PaginationParams
}

type ListEventsResponse struct {
	Events []events.Event `json:"events"`
}

func (h *Handler) ListEvents(c echo.Context) error {
	var req ListEventsRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	evs, err := h.svc.ListEvents(c.Request().Context(), service.ListEventsParams{
		PaginationParams: req.PaginationParams,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, statusFor(err), err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, ListEventsResponse{Events: evs})
}
