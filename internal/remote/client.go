// Package remote is the gateway's only boundary with the courier backend.
// It speaks the backend's HTTP/JSON contract verbatim and converts loosely
// shaped responses into typed results, so the rest of the gateway never
// touches untyped data.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
)

// DefaultTimeout bounds every remote call. The upstream has no SLA; a hung
// call must surface as a retryable transport failure, never a silent success.
const DefaultTimeout = 10 * time.Second

// Client calls the remote courier booking service.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient creates a Client for the given base URL. A zero timeout falls
// back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// bookingEnvelope is the backend's booking response shape.
type bookingEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Booking *booking.Booking `json:"booking"`
}

// CancelResult is the backend's answer to a cancellation request.
type CancelResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

// BookingPage is one page of a paginated booking listing.
type BookingPage struct {
	Content       []booking.Booking `json:"content"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
	PageSize      int               `json:"pageSize"`
}

// CreateBooking submits a validated booking request on behalf of the given
// role. Officer submissions use the officer endpoint so the backend applies
// officer pricing.
func (c *Client) CreateBooking(ctx context.Context, role booking.Role, token string, req booking.BookingRequest) (*booking.Booking, error) {
	path := "/bookings"
	if role == booking.RoleOfficer {
		path = "/bookings/officer"
	}

	var env bookingEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, token, req, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Booking == nil {
		return nil, &Error{Kind: KindBadRequest, Message: orDefault(env.Message, "booking was rejected")}
	}
	return env.Booking, nil
}

// CancelBooking asks the backend to cancel the booking. The backend enforces
// ownership and status rules authoritatively; client-side checks are only a
// courtesy.
func (c *Client) CancelBooking(ctx context.Context, role booking.Role, token, bookingID string) (*CancelResult, error) {
	path := "/cancel-booking/customer"
	if role == booking.RoleOfficer {
		path = "/cancel-booking/officer"
	}
	query := url.Values{"bookingId": []string{bookingID}}

	var res CancelResult
	if err := c.do(ctx, http.MethodPost, path, query, token, nil, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &Error{Kind: KindConflict, Message: orDefault(res.Message, "cancellation was rejected")}
	}
	if res.BookingID == "" {
		res.BookingID = bookingID
	}
	return &res, nil
}

// GetTracking fetches the current server-side view of a booking, including
// its authoritative status.
func (c *Client) GetTracking(ctx context.Context, role booking.Role, token, bookingID string) (*booking.Booking, error) {
	path := "/tracking/customer/" + url.PathEscape(bookingID)
	if role == booking.RoleOfficer {
		path = "/tracking/officer/" + url.PathEscape(bookingID)
	}

	var env bookingEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Booking == nil {
		return nil, &Error{Kind: KindNotFound, Message: orDefault(env.Message, "booking not found")}
	}
	return env.Booking, nil
}

// ListPreviousBookings fetches a page of the authenticated customer's history.
func (c *Client) ListPreviousBookings(ctx context.Context, token string, page, size int) (*BookingPage, error) {
	return c.listBookings(ctx, "/previous-bookings", token, page, size)
}

// ListAllBookings fetches a page of every booking, for the officer view.
func (c *Client) ListAllBookings(ctx context.Context, token string, page, size int) (*BookingPage, error) {
	return c.listBookings(ctx, "/all-bookings", token, page, size)
}

func (c *Client) listBookings(ctx context.Context, path, token string, page, size int) (*BookingPage, error) {
	query := url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
	var out BookingPage
	if err := c.do(ctx, http.MethodGet, path, query, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one HTTP round trip and decodes the JSON response into out.
// Non-2xx responses become tagged errors with the backend's message preserved
// verbatim where one is present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		remoteErr := &Error{
			Kind:       kindFromStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
		var env struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr == nil && env.Message != "" {
			remoteErr.Message = env.Message
		}
		c.logger.Debug("remote call rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", string(remoteErr.Kind)),
		)
		return remoteErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
