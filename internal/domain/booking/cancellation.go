package booking

import (
	"fmt"
	"time"
)

// FullRefundWindow is how long after creation a cancellation is still framed
// as fully refundable.
const FullRefundWindow = 2 * time.Hour

// RefundHint is the advisory refund framing shown to the user before a
// cancellation attempt. It is client-side copy only; the remote service owns
// the actual money movement.
type RefundHint struct {
	EligibleForFullRefund bool   `json:"eligibleForFullRefund"`
	Message               string `json:"message"`
}

// CanCancel reports whether a booking in the given status may be cancelled.
// Matches the remote service's own rule, so a true result is still only a
// prediction; the server re-checks on submission.
func CanCancel(status ParcelStatus) bool {
	return status.CanBeCancelled()
}

// DescribeExpectedOutcome computes the refund framing for a cancellation of a
// booking in the given status created at createdAt. The no-refund branch is
// unreachable through the normal flow (CanCancel already blocks IN_TRANSIT and
// later) but is modeled anyway so a stale status cannot mislead the user.
func DescribeExpectedOutcome(status ParcelStatus, createdAt, now time.Time) RefundHint {
	if !CanCancel(status) {
		return RefundHint{
			EligibleForFullRefund: false,
			Message:               fmt.Sprintf("A %s booking can no longer be cancelled and is not eligible for a refund.", status),
		}
	}
	if now.Sub(createdAt) <= FullRefundWindow {
		return RefundHint{
			EligibleForFullRefund: true,
			Message:               "Free cancellation within 2 hours of booking. A full refund is expected.",
		}
	}
	return RefundHint{
		EligibleForFullRefund: false,
		Message:               "Partial refund available for cancellations after 2 hours.",
	}
}
