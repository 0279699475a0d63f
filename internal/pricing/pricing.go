// Package pricing turns a base daily price and a rental duration into a
// price breakdown. Rentals of four hours or less are charged a fixed
// fraction of the daily price; longer rentals get a percentage discount
// based on the number of calendar days spanned. No rounding happens here;
// formatting is an output concern (see FormatPrice).
package pricing

import (
	"math"
	"time"
)

// Discount tiers by rental length.
const (
	shortRentalMaxHours = 4
	shortRentalFraction = 0.7

	tierLongDays = 5
	tierLongPct  = 30
	tierMidDays  = 3
	tierMidPct   = 10
	hoursPerDay  = 24
	shortDiscPct = 30
)

type Details struct {
	Total       float64 `json:"total"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	HourlyRate  float64 `json:"hourly_rate"`
	DayDiscount float64 `json:"day_discount"` // percent
}

// CalculateRentalDetails prices a rental of the given duration. Zero,
// negative, or NaN hours fall into the short-rental branch: upstream
// validation guarantees end > start, so those inputs only appear on
// degenerate data and must not panic.
func CalculateRentalDetails(basePrice, hours float64) Details {
	if math.IsNaN(hours) || hours <= shortRentalMaxHours {
		total := basePrice * shortRentalFraction
		return Details{
			Total:       total,
			Subtotal:    basePrice,
			Discount:    basePrice - total,
			HourlyRate:  total / shortRentalMaxHours,
			DayDiscount: shortDiscPct,
		}
	}

	days := math.Ceil(hours / hoursPerDay)
	var pct float64
	switch {
	case days >= tierLongDays:
		pct = tierLongPct
	case days >= tierMidDays:
		pct = tierMidPct
	}
	subtotal := days * basePrice
	discount := subtotal * pct / 100
	return Details{
		Total:       subtotal - discount,
		Subtotal:    subtotal,
		Discount:    discount,
		HourlyRate:  basePrice / hoursPerDay,
		DayDiscount: pct,
	}
}

// CalculateRentalPrice is the timestamp entry point. Missing dates yield 0;
// otherwise it agrees with CalculateRentalDetails on the total.
func CalculateRentalPrice(basePrice float64, start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	return CalculateRentalDetails(basePrice, Hours(start, end)).Total
}

func Hours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}
