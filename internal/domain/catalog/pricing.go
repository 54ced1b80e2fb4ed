package catalog

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PricingUnit is the period a slot's price is quoted for
type PricingUnit string

const (
	// PricingFlat charges the price once per booking (magazine issues, email blasts)
	PricingFlat  PricingUnit = "flat"
	PricingDay   PricingUnit = "day"
	PricingWeek  PricingUnit = "week"
	PricingMonth PricingUnit = "month"
)

const day = 24 * time.Hour

// IsValid checks if the pricing unit is known
func (u PricingUnit) IsValid() bool {
	switch u {
	case PricingFlat, PricingDay, PricingWeek, PricingMonth:
		return true
	}
	return false
}

// Quantity returns how many pricing units the [start, end) period spans.
// Partial units are charged in full and the minimum is one unit.
func (u PricingUnit) Quantity(start, end time.Time) decimal.Decimal {
	days := int64(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if days < 1 {
		days = 1
	}
	var units int64
	switch u {
	case PricingDay:
		units = days
	case PricingWeek:
		units = ceilDiv(days, 7)
	case PricingMonth:
		units = ceilDiv(days, 30)
	default:
		units = 1
	}
	return decimal.NewFromInt(units)
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
