// Package booking holds the date arithmetic behind the booking page: range
// validation, night counts, calendar grids and the outbound booking link.
package booking

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayout        = "2006-01-02"
	displayDateLayout = "Monday, Jan 2, 2006"

	// DefaultMinimumStay is used when a caller passes a non-positive stay.
	DefaultMinimumStay = 2
)

// DateRange is a check-in/check-out selection. Either end may be nil while
// the guest is still picking dates.
type DateRange struct {
	CheckIn  *time.Time
	CheckOut *time.Time
}

// Valid reports whether both ends are set and check-out is after check-in.
func (r DateRange) Valid() bool {
	return IsValidDateRange(r.CheckIn, r.CheckOut)
}

// Nights returns the night count for a valid range.
func (r DateRange) Nights() (int, bool) {
	if !r.Valid() {
		return 0, false
	}
	return CalculateNights(*r.CheckIn, *r.CheckOut), true
}

// FormatDateForURL formats a date as zero-padded YYYY-MM-DD in the date's own location.
func FormatDateForURL(date time.Time) string {
	return date.Format(dateLayout)
}

// FormatDateForDisplay formats a date like "Monday, Dec 15, 2025".
func FormatDateForDisplay(date time.Time) string {
	return date.Format(displayDateLayout)
}

// CalculateNights returns the number of whole days between the two dates,
// rounded so a DST shift of an hour does not lose or add a night.
func CalculateNights(checkIn, checkOut time.Time) int {
	days := float64(checkOut.Sub(checkIn)) / float64(24*time.Hour)
	return int(math.Round(days))
}

// IsValidDateRange reports whether both dates are present and checkOut is
// strictly later than checkIn. Minimum stay is not enforced here.
func IsValidDateRange(checkIn, checkOut *time.Time) bool {
	if checkIn == nil || checkOut == nil {
		return false
	}
	return checkOut.After(*checkIn)
}

// MinCheckoutDate returns the earliest check-out allowed by minimumStay.
func MinCheckoutDate(checkIn time.Time, minimumStay int) time.Time {
	if minimumStay <= 0 {
		minimumStay = DefaultMinimumStay
	}
	return checkIn.AddDate(0, 0, minimumStay)
}

// StartOfDay zeroes the clock of t in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsDateDisabled reports whether date falls before the start of now's calendar day.
func IsDateDisabled(date, now time.Time) bool {
	return date.Before(StartOfDay(now))
}

// ParseDate parses a YYYY-MM-DD value in loc. Blank input yields nil.
func ParseDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return &t, nil
}
