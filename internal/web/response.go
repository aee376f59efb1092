// Package web carries the gateway's HTTP plumbing: the JSON response
// envelope and the middleware stack.
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/remote"
)

// Envelope is the uniform response shape of every gateway endpoint.
type Envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    any                  `json:"data,omitempty"`
	Errors  []booking.FieldError `json:"errors,omitempty"`
}

// Paginated wraps one page of a listing.
type Paginated struct {
	Items         any   `json:"items"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
}

// Success writes a 200 envelope with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// SuccessMessage writes a 200 envelope with a message and data.
func SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 envelope with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 envelope with a message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}

// Error maps an error from the application or remote layers onto a response.
// Validation failures keep their field scoping; remote failures keep the
// backend's message and map their kind to a status code; anything else is a
// generic 500 without leaking internals.
func Error(c *gin.Context, err error) {
	var vErrs booking.ValidationErrors
	if errors.As(err, &vErrs) {
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Message: "validation failed",
			Errors:  vErrs,
		})
		return
	}

	var rErr *remote.Error
	if errors.As(err, &rErr) {
		c.JSON(statusForKind(rErr.Kind), Envelope{Success: false, Message: rErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal error"})
}

func statusForKind(kind remote.Kind) int {
	switch kind {
	case remote.KindBadRequest:
		return http.StatusBadRequest
	case remote.KindUnauthenticated:
		return http.StatusUnauthorized
	case remote.KindForbidden:
		return http.StatusForbidden
	case remote.KindNotFound:
		return http.StatusNotFound
	case remote.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
