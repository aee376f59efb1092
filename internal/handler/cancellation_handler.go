package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parceldesk/booking-gateway/internal/application"
	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/remote"
	"github.com/parceldesk/booking-gateway/internal/web"
)

// CancellationHandler handles HTTP requests for the cancellation flow.
type CancellationHandler struct {
	service *application.CancellationService
}

// NewCancellationHandler creates a new CancellationHandler.
func NewCancellationHandler(service *application.CancellationService) *CancellationHandler {
	return &CancellationHandler{service: service}
}

// RegisterRoutes registers all cancellation routes on the given router group.
func (h *CancellationHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("/:id/cancellation", h.Preview)
		bookings.POST("/:id/cancel", h.Cancel)
	}
}

// Preview handles GET /api/v1/bookings/:id/cancellation. Reads fresh status
// from the backend and reports eligibility plus the expected refund outcome.
func (h *CancellationHandler) Preview(c *gin.Context) {
	role, ok := roleFrom(c)
	if !ok {
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), role, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	web.Success(c, preview)
}

// Cancel handles POST /api/v1/bookings/:id/cancel. The request body carries
// the caller's explicit confirmation; an unconfirmed request makes no change
// and no remote call.
func (h *CancellationHandler) Cancel(c *gin.Context) {
	var body struct {
		Role      string `json:"role"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		web.BadRequest(c, "invalid cancellation request")
		return
	}

	var role booking.Role
	if body.Role != "" {
		parsed, ok := booking.ParseRole(strings.ToUpper(body.Role))
		if !ok {
			web.BadRequest(c, "invalid role")
			return
		}
		role = parsed
	} else {
		parsed, ok := roleFrom(c)
		if !ok {
			return
		}
		role = parsed
	}

	confirm := application.ConfirmerFunc(func(context.Context, string) (bool, error) {
		return body.Confirmed, nil
	})

	outcome, err := h.service.Cancel(c.Request.Context(), role, c.Param("id"), confirm)
	if err != nil {
		if errors.Is(err, application.ErrCancellationDeclined) {
			c.JSON(http.StatusOK, web.Envelope{
				Success: false,
				Message: application.UserFacingMessage(err),
			})
			return
		}
		h.writeError(c, err)
		return
	}

	web.SuccessMessage(c, outcome.Message, outcome)
}

// writeError maps cancellation failures to status codes while keeping the
// user-facing copy.
func (h *CancellationHandler) writeError(c *gin.Context, err error) {
	var nce *application.NotCancellableError
	switch {
	case errors.As(err, &nce):
		c.JSON(http.StatusConflict, web.Envelope{Success: false, Message: application.UserFacingMessage(err)})
	case errors.Is(err, application.ErrNoSession):
		c.JSON(http.StatusUnauthorized, web.Envelope{Success: false, Message: application.UserFacingMessage(err)})
	case remote.IsKind(err, remote.KindForbidden):
		c.JSON(http.StatusForbidden, web.Envelope{Success: false, Message: application.UserFacingMessage(err)})
	case remote.IsKind(err, remote.KindNotFound):
		c.JSON(http.StatusNotFound, web.Envelope{Success: false, Message: application.UserFacingMessage(err)})
	default:
		web.Error(c, err)
	}
}
