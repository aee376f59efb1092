package remote

import (
	"errors"
	"fmt"
)

// Kind tags a remote failure so callers can branch without parsing HTTP
// status codes or message text.
type Kind string

const (
	// KindBadRequest covers payloads the backend rejected as malformed. The
	// gateway's own validation should make this unreachable in practice.
	KindBadRequest Kind = "BAD_REQUEST"
	// KindUnauthenticated means no valid session token was accepted.
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	// KindForbidden means the authenticated principal does not own the booking.
	KindForbidden Kind = "FORBIDDEN"
	// KindNotFound means the booking id is unknown to the remote service.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict means the booking's server-side status raced past the
	// client-side check and the operation is no longer applicable.
	KindConflict Kind = "CONFLICT"
	// KindTransport covers network failures, timeouts and 5xx responses.
	// Retryable; no local state may be mutated on this path.
	KindTransport Kind = "TRANSPORT"
)

// Error is a tagged failure from the remote courier service boundary.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("remote %s (http %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a remote Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}

// kindFromStatus maps an HTTP response status to an error kind.
func kindFromStatus(code int) Kind {
	switch {
	case code == 401:
		return KindUnauthenticated
	case code == 403:
		return KindForbidden
	case code == 404:
		return KindNotFound
	case code == 409:
		return KindConflict
	case code >= 400 && code < 500:
		return KindBadRequest
	default:
		return KindTransport
	}
}
