package booking

import "time"

// IsNotPast reports whether t falls on or after the calendar date of now.
// Only the date matters here: a pickup later today is acceptable even if the
// chosen time-of-day has already passed, matching the form-level rule.
func IsNotPast(t, now time.Time) bool {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	candidate := time.Date(ty, tm, td, 0, 0, 0, 0, now.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	return !candidate.Before(today)
}

// IsAfter reports whether dropoff is strictly later than pickup. The full
// timestamp is compared: pickup and drop-off carry a time-of-day component
// that matters operationally, so two slots on the same day are valid as long
// as the drop-off time is later.
func IsAfter(dropoff, pickup time.Time) bool {
	return dropoff.After(pickup)
}

// ValidateSchedule checks the pickup/drop-off pair against the date rules and
// returns field-scoped validation errors. It is meant to be re-evaluated
// whenever either field changes; changing pickup after drop-off is set must
// re-validate drop-off.
func ValidateSchedule(pickup, dropoff, now time.Time) ValidationErrors {
	var errs ValidationErrors
	if !IsNotPast(pickup, now) {
		errs = errs.append("parcelPickupTime", "pickup date cannot be in the past")
	}
	if !IsNotPast(dropoff, now) {
		errs = errs.append("parcelDropoffTime", "drop-off date cannot be in the past")
	}
	if !IsAfter(dropoff, pickup) {
		errs = errs.append("parcelDropoffTime", "drop-off must be after pickup")
	}
	return errs
}
