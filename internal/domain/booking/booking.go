package booking

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Receiver PIN codes are 6-digit Indian postal codes; mobile numbers are
// 10-digit with a leading 6-9. Both are fixed wire formats of the remote
// courier service.
var (
	pinPattern    = regexp.MustCompile(`^[1-9]\d{5}$`)
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Weight bounds in grams accepted by the booking form.
const (
	MinWeightGrams = 1
	MaxWeightGrams = 1_000_000
)

// BookingRequest holds the inputs a user supplies before submission. Field
// names and units follow the remote service's wire contract: weight in grams,
// timestamps as ISO-8601.
type BookingRequest struct {
	ReceiverName              string            `json:"receiverName"`
	ReceiverAddress           string            `json:"receiverAddress"`
	ReceiverPin               string            `json:"receiverPin"`
	ReceiverMobile            string            `json:"receiverMobile"`
	ParcelWeightInGram        int64             `json:"parcelWeightInGram"`
	ParcelContentsDescription string            `json:"parcelContentsDescription"`
	ParcelDeliveryType        DeliveryType      `json:"parcelDeliveryType"`
	ParcelPackingPreference   PackingPreference `json:"parcelPackingPreference"`
	ParcelPickupTime          time.Time         `json:"parcelPickupTime"`
	ParcelDropoffTime         time.Time         `json:"parcelDropoffTime"`
}

// Validate checks every form rule and returns the full set of field errors so
// the UI can mark all offending inputs at once. A nil result means the request
// is ready for submission.
func (r BookingRequest) Validate(now time.Time) error {
	var errs ValidationErrors

	if n := utf8.RuneCountInString(r.ReceiverName); n < 3 || n > 50 {
		errs = errs.append("receiverName", "receiver name must be 3 to 50 characters")
	}
	if n := utf8.RuneCountInString(r.ReceiverAddress); n < 5 || n > 200 {
		errs = errs.append("receiverAddress", "receiver address must be 5 to 200 characters")
	}
	if !pinPattern.MatchString(r.ReceiverPin) {
		errs = errs.append("receiverPin", "receiver PIN must be a 6-digit postal code")
	}
	if !mobilePattern.MatchString(r.ReceiverMobile) {
		errs = errs.append("receiverMobile", "receiver mobile must be a valid 10-digit number")
	}
	if r.ParcelWeightInGram < MinWeightGrams || r.ParcelWeightInGram > MaxWeightGrams {
		errs = errs.append("parcelWeightInGram", "parcel weight must be between 1 g and 1,000,000 g")
	}
	if n := utf8.RuneCountInString(r.ParcelContentsDescription); n < 10 || n > 500 {
		errs = errs.append("parcelContentsDescription", "contents description must be 10 to 500 characters")
	}
	if !r.ParcelDeliveryType.IsValid() {
		errs = errs.append("parcelDeliveryType", "delivery type must be STANDARD, EXPRESS or SAME_DAY")
	}
	if !r.ParcelPackingPreference.IsValid() {
		errs = errs.append("parcelPackingPreference", "packing preference must be BASIC or PREMIUM")
	}
	if r.ParcelPickupTime.IsZero() {
		errs = errs.append("parcelPickupTime", "pickup time is required")
	}
	if r.ParcelDropoffTime.IsZero() {
		errs = errs.append("parcelDropoffTime", "drop-off time is required")
	}
	if !r.ParcelPickupTime.IsZero() && !r.ParcelDropoffTime.IsZero() {
		errs = append(errs, ValidateSchedule(r.ParcelPickupTime, r.ParcelDropoffTime, now)...)
	}

	return errs.OrNil()
}

// Booking is a parcel booking as recorded by the remote courier service. It is
// read-only from the gateway's perspective: status and cost are authoritative
// on the server and only reflected here.
type Booking struct {
	BookingID                 string            `json:"bookingId"`
	ReceiverName              string            `json:"receiverName"`
	ReceiverAddress           string            `json:"receiverAddress"`
	ReceiverPin               string            `json:"receiverPin"`
	ReceiverMobile            string            `json:"receiverMobile"`
	ParcelWeightInGram        int64             `json:"parcelWeightInGram"`
	ParcelContentsDescription string            `json:"parcelContentsDescription"`
	ParcelDeliveryType        DeliveryType      `json:"parcelDeliveryType"`
	ParcelPackingPreference   PackingPreference `json:"parcelPackingPreference"`
	ParcelPickupTime          time.Time         `json:"parcelPickupTime"`
	ParcelDropoffTime         time.Time         `json:"parcelDropoffTime"`
	ParcelServiceCost         decimal.Decimal   `json:"parcelServiceCost"`
	ParcelStatus              ParcelStatus      `json:"parcelStatus"`
	CreatedAt                 time.Time         `json:"createdAt"`
	UpdatedAt                 time.Time         `json:"updatedAt"`
}

// CanOfferCancellation reports whether the UI should offer the cancel action
// for this booking. Tracking is always offered regardless of status.
func (b Booking) CanOfferCancellation() bool {
	return CanCancel(b.ParcelStatus)
}
