package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/parceldesk/booking-gateway/internal/application"
	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/remote"
	"github.com/parceldesk/booking-gateway/internal/session"
)

// fakeAPI implements the remote client surface with function fields so each
// test plugs in exactly the behavior it needs.
type fakeAPI struct {
	createBooking func(ctx context.Context, role booking.Role, token string, req booking.BookingRequest) (*booking.Booking, error)
	getTracking   func(ctx context.Context, role booking.Role, token, bookingID string) (*booking.Booking, error)
	cancelBooking func(ctx context.Context, role booking.Role, token, bookingID string) (*remote.CancelResult, error)
	listPrevious  func(ctx context.Context, token string, page, size int) (*remote.BookingPage, error)
	listAll       func(ctx context.Context, token string, page, size int) (*remote.BookingPage, error)
}

func (f *fakeAPI) CreateBooking(ctx context.Context, role booking.Role, token string, req booking.BookingRequest) (*booking.Booking, error) {
	return f.createBooking(ctx, role, token, req)
}

func (f *fakeAPI) GetTracking(ctx context.Context, role booking.Role, token, bookingID string) (*booking.Booking, error) {
	return f.getTracking(ctx, role, token, bookingID)
}

func (f *fakeAPI) CancelBooking(ctx context.Context, role booking.Role, token, bookingID string) (*remote.CancelResult, error) {
	return f.cancelBooking(ctx, role, token, bookingID)
}

func (f *fakeAPI) ListPreviousBookings(ctx context.Context, token string, page, size int) (*remote.BookingPage, error) {
	return f.listPrevious(ctx, token, page, size)
}

func (f *fakeAPI) ListAllBookings(ctx context.Context, token string, page, size int) (*remote.BookingPage, error) {
	return f.listAll(ctx, token, page, size)
}

func newRouter(t *testing.T, api *fakeAPI, sessions session.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	bookingSvc := application.NewBookingService(api, sessions, booking.DefaultRateTable(), nil, 0, nil, log)
	cancelSvc := application.NewCancellationService(api, sessions, nil, nil, log)

	router := gin.New()
	NewBookingHandler(bookingSvc).RegisterRoutes(&router.RouterGroup)
	NewCancellationHandler(cancelSvc).RegisterRoutes(&router.RouterGroup)
	NewSessionHandler(sessions).RegisterRoutes(&router.RouterGroup)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionStoreWith(t *testing.T, role booking.Role, token string) session.Store {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), session.Session{Role: role, Token: token}))
	return store
}

func validPayload() map[string]any {
	pickup := time.Now().Add(24 * time.Hour)
	return map[string]any{
		"receiverName":              "Asha Rao",
		"receiverAddress":           "12 MG Road, Bengaluru",
		"receiverPin":               "560001",
		"receiverMobile":            "9876543210",
		"parcelWeightInGram":        2000,
		"parcelContentsDescription": "Books and stationery supplies",
		"parcelDeliveryType":        "STANDARD",
		"parcelPackingPreference":   "BASIC",
		"parcelPickupTime":          pickup.Format(time.RFC3339),
		"parcelDropoffTime":         pickup.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func TestQuoteEndpoint(t *testing.T) {
	router := newRouter(t, &fakeAPI{}, session.NewMemoryStore())

	w := doJSON(t, router, http.MethodPost, "/api/v1/quotes", map[string]any{
		"parcelWeightInGram":      2000,
		"parcelDeliveryType":      "STANDARD",
		"parcelPackingPreference": "BASIC",
		"role":                    "CUSTOMER",
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]any)
	assert.Equal(t, "136.5", data["total"])
}

func TestCreateBooking_Created(t *testing.T) {
	api := &fakeAPI{
		createBooking: func(_ context.Context, role booking.Role, token string, _ booking.BookingRequest) (*booking.Booking, error) {
			assert.Equal(t, booking.RoleCustomer, role)
			assert.Equal(t, "cust-tok", token)
			return &booking.Booking{BookingID: "BK-1001", ParcelStatus: booking.StatusBooked}, nil
		},
	}
	router := newRouter(t, api, sessionStoreWith(t, booking.RoleCustomer, "cust-tok"))

	w := doJSON(t, router, http.MethodPost, "/api/v1/bookings", validPayload())

	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env["success"])
}

func TestCreateBooking_ValidationFailure(t *testing.T) {
	router := newRouter(t, &fakeAPI{}, sessionStoreWith(t, booking.RoleCustomer, "tok"))

	payload := validPayload()
	payload["receiverPin"] = "0000"
	w := doJSON(t, router, http.MethodPost, "/api/v1/bookings", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, false, env["success"])
	require.NotEmpty(t, env["errors"])
}

func TestCreateBooking_NoSessionIs401(t *testing.T) {
	router := newRouter(t, &fakeAPI{}, session.NewMemoryStore())

	w := doJSON(t, router, http.MethodPost, "/api/v1/bookings", validPayload())

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelBooking_Declined(t *testing.T) {
	api := &fakeAPI{
		getTracking: func(context.Context, booking.Role, string, string) (*booking.Booking, error) {
			return &booking.Booking{BookingID: "BK-1", ParcelStatus: booking.StatusBooked, CreatedAt: time.Now()}, nil
		},
	}
	router := newRouter(t, api, sessionStoreWith(t, booking.RoleCustomer, "tok"))

	w := doJSON(t, router, http.MethodPost, "/api/v1/bookings/BK-1/cancel", map[string]any{
		"role":      "CUSTOMER",
		"confirmed": false,
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, false, env["success"])
	assert.Contains(t, env["message"], "not confirmed")
}

func TestCancelBooking_NotCancellableIs409(t *testing.T) {
	api := &fakeAPI{
		getTracking: func(context.Context, booking.Role, string, string) (*booking.Booking, error) {
			return &booking.Booking{BookingID: "BK-1", ParcelStatus: booking.StatusDelivered}, nil
		},
	}
	router := newRouter(t, api, sessionStoreWith(t, booking.RoleCustomer, "tok"))

	w := doJSON(t, router, http.MethodPost, "/api/v1/bookings/BK-1/cancel", map[string]any{
		"role":      "CUSTOMER",
		"confirmed": true,
	})

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelBooking_ForbiddenIs403(t *testing.T) {
	api := &fakeAPI{
		getTracking: func(context.Context, booking.Role, string, string) (*booking.Booking, error) {
			return &booking.Booking{BookingID: "BK-1", ParcelStatus: booking.StatusBooked, CreatedAt: time.Now()}, nil
		},
		cancelBooking: func(context.Context, booking.Role, string, string) (*remote.CancelResult, error) {
			return nil, &remote.Error{Kind: remote.KindForbidden, StatusCode: 403, Message: "not your booking"}
		},
	}
	router := newRouter(t, api, sessionStoreWith(t, booking.RoleCustomer, "tok"))

	w := doJSON(t, router, http.MethodPost, "/api/v1/bookings/BK-1/cancel", map[string]any{
		"role":      "CUSTOMER",
		"confirmed": true,
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "You can only cancel your own bookings.", env["message"])
}

func TestSessionLifecycle(t *testing.T) {
	router := newRouter(t, &fakeAPI{}, session.NewMemoryStore())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "Asha Rao",
		"role": "CUSTOMER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPut, "/api/v1/session/customer", map[string]any{"token": token})
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]any)
	assert.Equal(t, "Asha Rao", data["displayName"])
	assert.NotContains(t, w.Body.String(), token, "raw token must not be echoed")

	w = doJSON(t, router, http.MethodGet, "/api/v1/session/customer", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/session/officer", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/session/customer", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/session/customer", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSession_RejectsExpiredToken(t *testing.T) {
	router := newRouter(t, &fakeAPI{}, session.NewMemoryStore())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "CUSTOMER",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPut, "/api/v1/session/customer", map[string]any{"token": token})

	require.Equal(t, http.StatusBadRequest, w.Code)
}
