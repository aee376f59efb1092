// Package events publishes gateway activity to Kafka for downstream audit
// and analytics. Publishing is strictly best effort: a broker outage must
// never fail a booking or cancellation flow.
package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
)

// Activity event types emitted by the gateway.
const (
	TypeBookingSubmitted      = "gateway.booking.submitted"
	TypeCancellationRequested = "gateway.cancellation.requested"
)

// ActivityEvent describes one user-visible gateway action.
type ActivityEvent struct {
	Type       string       `json:"type"`
	BookingID  string       `json:"bookingId"`
	Role       booking.Role `json:"role"`
	OccurredAt time.Time    `json:"occurredAt"`
	Detail     string       `json:"detail,omitempty"`
}

// Producer writes activity events to a single Kafka topic. A nil Producer is
// valid and drops everything, so callers never need a broker in tests or in
// minimal deployments.
type Producer struct {
	w      *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers and topic. Returns nil
// when no brokers are configured.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Producer{
		w: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
		logger: logger,
	}
}

// Publish emits one activity event keyed by booking id. Failures are logged
// and swallowed.
func (p *Producer) Publish(ctx context.Context, evt ActivityEvent) {
	if p == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("encode activity event", zap.Error(err))
		return
	}
	if err := p.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(evt.BookingID),
		Value: value,
	}); err != nil {
		p.logger.Warn("publish activity event",
			zap.String("type", evt.Type),
			zap.String("booking_id", evt.BookingID),
			zap.Error(err),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}
