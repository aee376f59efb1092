package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parceldesk/booking-gateway/internal/cache"
	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/events"
	"github.com/parceldesk/booking-gateway/internal/remote"
	"github.com/parceldesk/booking-gateway/internal/session"
)

// ErrSubmissionInFlight is returned when a form instance already has an
// outstanding submission. The submit control stays disabled until the first
// request resolves; duplicates are rejected, not queued.
var ErrSubmissionInFlight = errors.New("a submission for this form is already in flight")

// ErrNoSession is returned when the role slot needed for an action holds no
// usable credential. The caller should send the user back to login.
var ErrNoSession = errors.New("no active session for this role")

// BookingAPI is the slice of the remote client the booking flow depends on.
type BookingAPI interface {
	CreateBooking(ctx context.Context, role booking.Role, token string, req booking.BookingRequest) (*booking.Booking, error)
	GetTracking(ctx context.Context, role booking.Role, token, bookingID string) (*booking.Booking, error)
	ListPreviousBookings(ctx context.Context, token string, page, size int) (*remote.BookingPage, error)
	ListAllBookings(ctx context.Context, token string, page, size int) (*remote.BookingPage, error)
}

// QuoteRequest carries the live form inputs for a cost preview. Inputs arrive
// as raw strings because the preview must keep working while the form is
// half-filled; anything unparsable simply yields a zeroed breakdown.
type QuoteRequest struct {
	ParcelWeightInGram      int64  `json:"parcelWeightInGram"`
	ParcelDeliveryType      string `json:"parcelDeliveryType"`
	ParcelPackingPreference string `json:"parcelPackingPreference"`
	Role                    string `json:"role"`
}

// BookingService orchestrates the booking form flow: live cost preview,
// validation, and submission to the remote courier service.
type BookingService struct {
	remote      BookingAPI
	sessions    session.Store
	rates       booking.RateTable
	cache       cache.BytesCache
	trackingTTL time.Duration
	producer    *events.Producer
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewBookingService creates a BookingService. The cache and producer may be
// nil; tracking reads then always hit the backend and no events are emitted.
func NewBookingService(
	api BookingAPI,
	sessions session.Store,
	rates booking.RateTable,
	c cache.BytesCache,
	trackingTTL time.Duration,
	producer *events.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		remote:      api,
		sessions:    sessions,
		rates:       rates,
		cache:       c,
		trackingTTL: trackingTTL,
		producer:    producer,
		logger:      logger,
		now:         time.Now,
		inFlight:    make(map[uuid.UUID]struct{}),
	}
}

// Quote computes the current cost preview for the form's inputs. Pure and
// side-effect free, so it can be called on every keystroke.
func (s *BookingService) Quote(req QuoteRequest) booking.CostBreakdown {
	role, _ := booking.ParseRole(req.Role)
	return s.rates.Quote(
		req.ParcelWeightInGram,
		booking.DeliveryType(req.ParcelDeliveryType),
		booking.PackingPreference(req.ParcelPackingPreference),
		role,
	)
}

// SubmitBooking validates the finished request and submits it under the
// role's session. Validation failures never reach the backend. On any
// failure the caller's form state is untouched so user input is not lost.
func (s *BookingService) SubmitBooking(ctx context.Context, formID uuid.UUID, role booking.Role, req booking.BookingRequest) (*booking.Booking, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	if !s.beginSubmission(formID) {
		return nil, ErrSubmissionInFlight
	}
	defer s.endSubmission(formID)

	sess, err := s.activeSession(ctx, role)
	if err != nil {
		return nil, err
	}

	created, err := s.remote.CreateBooking(ctx, role, sess.Token, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking submitted",
		zap.String("booking_id", created.BookingID),
		zap.String("role", string(role)),
	)
	s.producer.Publish(ctx, events.ActivityEvent{
		Type:      events.TypeBookingSubmitted,
		BookingID: created.BookingID,
		Role:      role,
	})
	return created, nil
}

// GetTracking returns the booking's current server-side view. Reads may be
// served from a short-TTL cache; status-gated decisions elsewhere re-fetch
// fresh on rejection, so a slightly stale read here is harmless.
func (s *BookingService) GetTracking(ctx context.Context, role booking.Role, bookingID string) (*booking.Booking, error) {
	sess, err := s.activeSession(ctx, role)
	if err != nil {
		return nil, err
	}

	key := trackingKey(role, bookingID)
	if s.cache != nil && s.trackingTTL > 0 {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var bk booking.Booking
			if json.Unmarshal(raw, &bk) == nil {
				return &bk, nil
			}
		}
	}

	bk, err := s.remote.GetTracking(ctx, role, sess.Token, bookingID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.trackingTTL > 0 {
		if raw, err := json.Marshal(bk); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.trackingTTL); err != nil {
				s.logger.Debug("tracking cache set failed", zap.Error(err))
			}
		}
	}
	return bk, nil
}

// ListBookings fetches one page of the role's booking listing: customers see
// their own history, officers see every booking.
func (s *BookingService) ListBookings(ctx context.Context, role booking.Role, page, size int) (*remote.BookingPage, error) {
	sess, err := s.activeSession(ctx, role)
	if err != nil {
		return nil, err
	}
	if role == booking.RoleOfficer {
		return s.remote.ListAllBookings(ctx, sess.Token, page, size)
	}
	return s.remote.ListPreviousBookings(ctx, sess.Token, page, size)
}

func (s *BookingService) beginSubmission(formID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[formID]; busy {
		return false
	}
	s.inFlight[formID] = struct{}{}
	return true
}

func (s *BookingService) endSubmission(formID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, formID)
}

func (s *BookingService) activeSession(ctx context.Context, role booking.Role) (session.Session, error) {
	return activeSession(ctx, s.sessions, role, s.now())
}

// activeSession resolves a role slot to a usable credential. Expired tokens
// count as no session: the backend would reject them anyway, so fail early.
func activeSession(ctx context.Context, store session.Store, role booking.Role, now time.Time) (session.Session, error) {
	if !role.IsValid() {
		return session.Session{}, fmt.Errorf("%w: unknown role %q", ErrNoSession, role)
	}
	sess, ok, err := store.Get(ctx, role)
	if err != nil {
		return session.Session{}, fmt.Errorf("load %s session: %w", role, err)
	}
	if !ok {
		return session.Session{}, fmt.Errorf("%w: %s", ErrNoSession, role)
	}
	if sess.Expired(now) {
		return session.Session{}, fmt.Errorf("%w: %s session expired", ErrNoSession, role)
	}
	return sess, nil
}

func trackingKey(role booking.Role, bookingID string) string {
	return fmt.Sprintf("tracking:%s:%s", role, bookingID)
}
