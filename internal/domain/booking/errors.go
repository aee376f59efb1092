package booking

import (
	"fmt"
	"strings"
)

// FieldError is a single field-scoped validation failure. These errors are
// resolved entirely client-side by editing the form; they are never sent to
// the remote service.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field errors for one validation pass.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// OrNil returns the collection as an error, or nil when it is empty. A typed
// nil slice wrapped in a non-nil error interface is a classic footgun, so
// callers should always go through this.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) append(field, message string) ValidationErrors {
	return append(v, FieldError{Field: field, Message: message})
}
