package booking

import "fmt"

// ParcelStatus represents the current state of a parcel booking in its lifecycle.
// The lifecycle is owned by the remote courier service; the gateway only reads
// statuses to decide which actions to offer.
type ParcelStatus string

const (
	StatusPending   ParcelStatus = "PENDING"
	StatusBooked    ParcelStatus = "BOOKED"
	StatusInTransit ParcelStatus = "IN_TRANSIT"
	StatusDelivered ParcelStatus = "DELIVERED"
	StatusCancelled ParcelStatus = "CANCELLED"
)

// validTransitions defines the state machine for parcel status transitions.
// Cancellation is reachable from PENDING and BOOKED only; a parcel already
// in transit can no longer be cancelled.
var validTransitions = map[ParcelStatus][]ParcelStatus{
	StatusPending:   {StatusBooked, StatusCancelled},
	StatusBooked:    {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized parcel status.
func (s ParcelStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s ParcelStatus) CanTransitionTo(target ParcelStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s ParcelStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if a booking in this status may still be cancelled.
func (s ParcelStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// String returns the string representation of the status.
func (s ParcelStatus) String() string {
	return string(s)
}

// ParseParcelStatus converts a string to a ParcelStatus, returning an error if invalid.
func ParseParcelStatus(s string) (ParcelStatus, error) {
	status := ParcelStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid parcel status: %s", s)
	}
	return status, nil
}
