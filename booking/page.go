package booking

import (
	"fmt"
	"time"
)

// Page is the view model behind the booking page.
type Page struct {
	CheckIn         string  `json:"check_in,omitempty"`
	CheckOut        string  `json:"check_out,omitempty"`
	CheckInDisplay  string  `json:"check_in_display,omitempty"`
	CheckOutDisplay string  `json:"check_out_display,omitempty"`
	ValidRange      bool    `json:"valid_range"`
	Nights          int     `json:"nights"`
	MeetsMinimum    bool    `json:"meets_minimum_stay"`
	MinimumStayNote string  `json:"minimum_stay_note"`
	BookingURL      string  `json:"booking_url"`
	Info            Info    `json:"info"`
	Pricing         Pricing `json:"pricing"`
	Safety          Safety  `json:"safety"`
}

// NewPage builds the booking page for the current selection. The booking
// link only carries dates once the range is valid.
func NewPage(info Info, sel DateRange) Page {
	page := Page{
		MinimumStayNote: MinimumStayNote(info.MinimumStay),
		BookingURL:      info.AirbnbURL,
		Info:            info,
		Pricing:         DefaultPricing(),
		Safety:          DefaultSafety(),
	}

	if sel.CheckIn != nil {
		page.CheckIn = FormatDateForURL(*sel.CheckIn)
		page.CheckInDisplay = FormatDateForDisplay(*sel.CheckIn)
	}
	if sel.CheckOut != nil {
		page.CheckOut = FormatDateForURL(*sel.CheckOut)
		page.CheckOutDisplay = FormatDateForDisplay(*sel.CheckOut)
	}

	if nights, ok := sel.Nights(); ok {
		page.ValidRange = true
		page.Nights = nights
		page.MeetsMinimum = nights >= info.MinimumStay
		page.BookingURL = AirbnbURLWithDates(info.AirbnbURL, page.CheckIn, page.CheckOut)
	}

	return page
}

// MinimumStayNote renders "Minimum stay: 2 nights".
func MinimumStayNote(minimumStay int) string {
	unit := "nights"
	if minimumStay == 1 {
		unit = "night"
	}
	return fmt.Sprintf("Minimum stay: %d %s", minimumStay, unit)
}

// SelectionFromStrings parses optional YYYY-MM-DD values into a DateRange.
func SelectionFromStrings(checkIn, checkOut string, loc *time.Location) (DateRange, error) {
	in, err := ParseDate(checkIn, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("check_in: %w", err)
	}
	out, err := ParseDate(checkOut, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("check_out: %w", err)
	}
	return DateRange{CheckIn: in, CheckOut: out}, nil
}
