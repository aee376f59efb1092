package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parceldesk/booking-gateway/internal/application"
	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/web"
)

// BookingHandler handles HTTP requests for quotes, booking submission,
// listings, and tracking.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/quotes", h.Quote)

	bookings := r.Group("/api/v1/bookings")
	{
		bookings.POST("", h.CreateCustomerBooking)
		bookings.POST("/officer", h.CreateOfficerBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id/tracking", h.GetTracking)
	}
}

// Quote handles POST /api/v1/quotes. The preview is pure: invalid or
// incomplete inputs produce a zeroed breakdown, never an error.
func (h *BookingHandler) Quote(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "invalid quote request")
		return
	}
	web.Success(c, h.service.Quote(req))
}

// CreateCustomerBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateCustomerBooking(c *gin.Context) {
	h.createBooking(c, booking.RoleCustomer)
}

// CreateOfficerBooking handles POST /api/v1/bookings/officer.
func (h *BookingHandler) CreateOfficerBooking(c *gin.Context) {
	h.createBooking(c, booking.RoleOfficer)
}

func (h *BookingHandler) createBooking(c *gin.Context, role booking.Role) {
	formID, err := formIDFrom(c)
	if err != nil {
		web.BadRequest(c, "invalid X-Form-ID header")
		return
	}

	var req booking.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "invalid booking request")
		return
	}

	created, err := h.service.SubmitBooking(c.Request.Context(), formID, role, req)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, web.Envelope{Success: false, Message: err.Error()})
		case errors.Is(err, application.ErrNoSession):
			c.JSON(http.StatusUnauthorized, web.Envelope{Success: false, Message: "Authentication failed. Please login again."})
		default:
			web.Error(c, err)
		}
		return
	}

	web.Created(c, created)
}

// ListBookings handles GET /api/v1/bookings. Customers see their own
// history, officers see every booking.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	role, ok := roleFrom(c)
	if !ok {
		return
	}

	page, size := parsePagination(c)

	result, err := h.service.ListBookings(c.Request.Context(), role, page, size)
	if err != nil {
		if errors.Is(err, application.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, web.Envelope{Success: false, Message: "Authentication failed. Please login again."})
			return
		}
		web.Error(c, err)
		return
	}

	web.Success(c, web.Paginated{
		Items:         result.Content,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		Page:          result.CurrentPage,
		PageSize:      result.PageSize,
	})
}

// GetTracking handles GET /api/v1/bookings/:id/tracking.
func (h *BookingHandler) GetTracking(c *gin.Context) {
	role, ok := roleFrom(c)
	if !ok {
		return
	}

	bk, err := h.service.GetTracking(c.Request.Context(), role, c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, web.Envelope{Success: false, Message: "Authentication failed. Please login again."})
			return
		}
		web.Error(c, err)
		return
	}

	web.Success(c, bk)
}

// formIDFrom reads the form instance id from the X-Form-ID header. A missing
// header gets a fresh id: the duplicate-submit guard then covers only
// callers that identify their form, which is exactly the browser flow.
func formIDFrom(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader("X-Form-ID")
	if raw == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(raw)
}

// roleFrom reads the role query parameter, defaulting to CUSTOMER. Writes
// the error response itself when the value is unusable.
func roleFrom(c *gin.Context) (booking.Role, bool) {
	raw := c.DefaultQuery("role", string(booking.RoleCustomer))
	role, ok := booking.ParseRole(strings.ToUpper(raw))
	if !ok {
		web.BadRequest(c, "invalid role")
		return "", false
	}
	return role, true
}

// parsePagination extracts page and size query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	return page, size
}
