package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parceldesk/booking-gateway/internal/cache"
	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/events"
	"github.com/parceldesk/booking-gateway/internal/remote"
	"github.com/parceldesk/booking-gateway/internal/session"
)

// ErrCancellationDeclined is returned when the user does not confirm the
// cancellation prompt. Nothing is sent to the backend in that case.
var ErrCancellationDeclined = errors.New("cancellation was not confirmed")

// NotCancellableError is returned when the booking's status blocks
// cancellation client-side, before any remote call is issued.
type NotCancellableError struct {
	Status booking.ParcelStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("a %s booking can no longer be cancelled", e.Status)
}

// Confirmer is the explicit user-confirmation step that must complete before
// the remote cancellation call is issued. Modeling it as an interface keeps
// the policy and remote-call logic independent of any particular UI prompt.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// CancelAPI is the slice of the remote client the cancellation flow depends on.
type CancelAPI interface {
	CancelBooking(ctx context.Context, role booking.Role, token, bookingID string) (*remote.CancelResult, error)
	GetTracking(ctx context.Context, role booking.Role, token, bookingID string) (*booking.Booking, error)
}

// CancellationPreview tells the UI whether to offer cancellation and what
// refund outcome to message.
type CancellationPreview struct {
	BookingID  string               `json:"bookingId"`
	Status     booking.ParcelStatus `json:"status"`
	CanCancel  bool                 `json:"canCancel"`
	RefundHint booking.RefundHint   `json:"refundHint"`
}

// CancellationOutcome is the result of a successful cancellation attempt. It
// is never persisted beyond the current view.
type CancellationOutcome struct {
	BookingID  string               `json:"bookingId"`
	Status     booking.ParcelStatus `json:"status"`
	Message    string               `json:"message"`
	RefundHint *booking.RefundHint  `json:"refundHint,omitempty"`
}

// CancellationService orchestrates cancellation requests: client-side policy
// gating, the user confirmation step, and the remote call.
type CancellationService struct {
	remote   CancelAPI
	sessions session.Store
	cache    cache.BytesCache
	producer *events.Producer
	logger   *zap.Logger
	now      func() time.Time
}

// NewCancellationService creates a CancellationService. Cache and producer
// may be nil.
func NewCancellationService(
	api CancelAPI,
	sessions session.Store,
	c cache.BytesCache,
	producer *events.Producer,
	logger *zap.Logger,
) *CancellationService {
	return &CancellationService{
		remote:   api,
		sessions: sessions,
		cache:    c,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// Preview fetches the booking's current status and computes the advisory
// cancellation eligibility and refund framing. Always reads fresh from the
// backend: gating decisions must not trust a cached status.
func (s *CancellationService) Preview(ctx context.Context, role booking.Role, bookingID string) (*CancellationPreview, error) {
	sess, err := activeSession(ctx, s.sessions, role, s.now())
	if err != nil {
		return nil, err
	}
	bk, err := s.remote.GetTracking(ctx, role, sess.Token, bookingID)
	if err != nil {
		return nil, err
	}
	return &CancellationPreview{
		BookingID:  bk.BookingID,
		Status:     bk.ParcelStatus,
		CanCancel:  booking.CanCancel(bk.ParcelStatus),
		RefundHint: booking.DescribeExpectedOutcome(bk.ParcelStatus, bk.CreatedAt, s.now()),
	}, nil
}

// Cancel runs the full cancellation flow for one booking: re-fetch status,
// client-side eligibility gate, user confirmation, then the remote call. The
// server remains authoritative: a rejection means our status view raced, so
// the cached view is dropped and the caller should re-render from fresh data.
func (s *CancellationService) Cancel(ctx context.Context, role booking.Role, bookingID string, confirm Confirmer) (*CancellationOutcome, error) {
	sess, err := activeSession(ctx, s.sessions, role, s.now())
	if err != nil {
		return nil, err
	}

	bk, err := s.remote.GetTracking(ctx, role, sess.Token, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.CanCancel(bk.ParcelStatus) {
		return nil, &NotCancellableError{Status: bk.ParcelStatus}
	}
	hint := booking.DescribeExpectedOutcome(bk.ParcelStatus, bk.CreatedAt, s.now())

	prompt := fmt.Sprintf("Are you sure you want to cancel booking %s? This action cannot be undone.", bookingID)
	ok, err := confirm.Confirm(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("confirmation step: %w", err)
	}
	if !ok {
		return nil, ErrCancellationDeclined
	}

	res, err := s.remote.CancelBooking(ctx, role, sess.Token, bookingID)
	if err != nil {
		// The server said no; whatever status we had is suspect now.
		s.invalidateTracking(ctx, bookingID)
		return nil, err
	}

	s.invalidateTracking(ctx, bookingID)
	s.logger.Info("booking cancelled",
		zap.String("booking_id", res.BookingID),
		zap.String("role", string(role)),
	)
	s.producer.Publish(ctx, events.ActivityEvent{
		Type:      events.TypeCancellationRequested,
		BookingID: res.BookingID,
		Role:      role,
		Detail:    res.Message,
	})

	return &CancellationOutcome{
		BookingID:  res.BookingID,
		Status:     booking.StatusCancelled,
		Message:    res.Message,
		RefundHint: &hint,
	}, nil
}

func (s *CancellationService) invalidateTracking(ctx context.Context, bookingID string) {
	if s.cache == nil {
		return
	}
	for _, role := range []booking.Role{booking.RoleCustomer, booking.RoleOfficer} {
		if err := s.cache.Delete(ctx, trackingKey(role, bookingID)); err != nil {
			s.logger.Debug("tracking cache invalidation failed", zap.Error(err))
		}
	}
}

// UserFacingMessage translates a cancellation failure into the copy shown to
// the user. Backend messages are preserved where they are already usable.
func UserFacingMessage(err error) string {
	var nce *NotCancellableError
	switch {
	case errors.As(err, &nce):
		return fmt.Sprintf("This booking is %s and can no longer be cancelled.", nce.Status)
	case errors.Is(err, ErrCancellationDeclined):
		return "Cancellation was not confirmed. No changes were made."
	case errors.Is(err, ErrNoSession):
		return "Authentication failed. Please login again."
	case remote.IsKind(err, remote.KindForbidden):
		return "You can only cancel your own bookings."
	case remote.IsKind(err, remote.KindNotFound):
		return "Booking not found. Please check the booking ID."
	case remote.IsKind(err, remote.KindUnauthenticated):
		return "Authentication failed. Please login again."
	case remote.IsKind(err, remote.KindTransport):
		return "Cancellation failed. Please try again."
	}
	var rErr *remote.Error
	if errors.As(err, &rErr) && rErr.Message != "" {
		return rErr.Message
	}
	return "Cancellation failed. Please try again."
}
