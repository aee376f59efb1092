package booking

import "github.com/shopspring/decimal"

// Role identifies the acting principal's capability class. Each role holds an
// independent session with the remote courier service.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOfficer  Role = "OFFICER"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleOfficer
}

// ParseRole converts a string to a Role, returning false if unrecognized.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// DeliveryType is the delivery urgency tier.
type DeliveryType string

const (
	DeliveryStandard DeliveryType = "STANDARD"
	DeliveryExpress  DeliveryType = "EXPRESS"
	DeliverySameDay  DeliveryType = "SAME_DAY"
)

// IsValid returns true if the delivery type is recognized.
func (d DeliveryType) IsValid() bool {
	switch d {
	case DeliveryStandard, DeliveryExpress, DeliverySameDay:
		return true
	}
	return false
}

// PackingPreference is the packing quality tier.
type PackingPreference string

const (
	PackingBasic   PackingPreference = "BASIC"
	PackingPremium PackingPreference = "PREMIUM"
)

// IsValid returns true if the packing preference is recognized.
func (p PackingPreference) IsValid() bool {
	return p == PackingBasic || p == PackingPremium
}

// CostBreakdown is the itemized service cost preview for a booking. It is
// derived, never persisted; the authoritative charge is whatever the remote
// service records at booking creation.
type CostBreakdown struct {
	BaseRate       decimal.Decimal `json:"baseRate"`
	WeightCharge   decimal.Decimal `json:"weightCharge"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	PackingCharge  decimal.Decimal `json:"packingCharge"`
	AdminFee       decimal.Decimal `json:"adminFee"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
}

// IsZero returns true for the zeroed breakdown produced from invalid inputs.
func (b CostBreakdown) IsZero() bool {
	return b.Total.IsZero() && b.Subtotal.IsZero()
}

// RateTable holds the charges the pricing engine applies. A single table is
// shared by the customer and officer flows; the officer admin fee is the only
// role-dependent component.
type RateTable struct {
	BaseRate            decimal.Decimal
	WeightChargePerGram decimal.Decimal
	DeliveryCharges     map[DeliveryType]decimal.Decimal
	PackingCharges      map[PackingPreference]decimal.Decimal
	OfficerAdminFee     decimal.Decimal
	TaxRate             decimal.Decimal
}

// DefaultRateTable returns the canonical rate table of the courier service.
func DefaultRateTable() RateTable {
	return RateTable{
		BaseRate:            decimal.NewFromInt(50),
		WeightChargePerGram: decimal.RequireFromString("0.02"),
		DeliveryCharges: map[DeliveryType]decimal.Decimal{
			DeliveryStandard: decimal.NewFromInt(30),
			DeliveryExpress:  decimal.NewFromInt(80),
			DeliverySameDay:  decimal.NewFromInt(150),
		},
		PackingCharges: map[PackingPreference]decimal.Decimal{
			PackingBasic:   decimal.NewFromInt(10),
			PackingPremium: decimal.NewFromInt(30),
		},
		OfficerAdminFee: decimal.NewFromInt(50),
		TaxRate:         decimal.RequireFromString("0.05"),
	}
}

// Quote computes the itemized cost preview for the given inputs. It is pure
// and safe to call on every input change. Invalid inputs (negative weight,
// unknown tiers) yield a zeroed breakdown rather than an error; blocking
// submission is the caller's responsibility via request validation.
//
// Only the total is rounded (to 2 decimal places); the components stay exact
// so rounding error cannot compound.
func (t RateTable) Quote(weightGrams int64, delivery DeliveryType, packing PackingPreference, role Role) CostBreakdown {
	deliveryCharge, okDelivery := t.DeliveryCharges[delivery]
	packingCharge, okPacking := t.PackingCharges[packing]
	if weightGrams < 0 || !okDelivery || !okPacking || !role.IsValid() {
		return CostBreakdown{}
	}

	weightCharge := t.WeightChargePerGram.Mul(decimal.NewFromInt(weightGrams))

	adminFee := decimal.Zero
	if role == RoleOfficer {
		adminFee = t.OfficerAdminFee
	}

	subtotal := t.BaseRate.
		Add(weightCharge).
		Add(deliveryCharge).
		Add(packingCharge).
		Add(adminFee)
	tax := subtotal.Mul(t.TaxRate)

	return CostBreakdown{
		BaseRate:       t.BaseRate,
		WeightCharge:   weightCharge,
		DeliveryCharge: deliveryCharge,
		PackingCharge:  packingCharge,
		AdminFee:       adminFee,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		Total:          subtotal.Add(tax).Round(2),
	}
}
