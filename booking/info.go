package booking

import (
	"net/url"
	"strings"

	"github.com/gilby125/pelicans-place/config"
)

// Info is the static booking policy shown on the booking page.
type Info struct {
	AirbnbURL          string `json:"airbnb_url"`
	CheckInTime        string `json:"check_in_time"`
	CheckOutTime       string `json:"check_out_time"`
	MinimumStay        int    `json:"minimum_stay"`
	MaximumStay        int    `json:"maximum_stay"`
	InstantBooking     bool   `json:"instant_booking"`
	CancellationPolicy string `json:"cancellation_policy"`
}

// Pricing describes how rates are quoted. Actual prices live on the booking platform.
type Pricing struct {
	Note           string `json:"note"`
	NightlyRate    string `json:"nightly_rate"`
	CleaningFee    string `json:"cleaning_fee"`
	AdditionalNote string `json:"additional_note"`
}

// Safety lists the on-site safety devices.
type Safety struct {
	Devices         []string `json:"devices"`
	EmergencyNumber string   `json:"emergency_number"`
}

// DefaultInfo returns the booking policy for the property.
func DefaultInfo() Info {
	return Info{
		AirbnbURL:          "https://www.airbnb.com/h/pelicansplace",
		CheckInTime:        "After 4:00 PM",
		CheckOutTime:       "Before 10:00 AM",
		MinimumStay:        2,
		MaximumStay:        28,
		InstantBooking:     false,
		CancellationPolicy: "Standard Airbnb cancellation policy applies",
	}
}

// InfoFromConfig overlays the configured link and stay limits on DefaultInfo.
func InfoFromConfig(cfg config.BookingConfig) Info {
	info := DefaultInfo()
	if cfg.AirbnbURL != "" {
		info.AirbnbURL = cfg.AirbnbURL
	}
	if cfg.MinimumStay > 0 {
		info.MinimumStay = cfg.MinimumStay
	}
	if cfg.MaximumStay > 0 {
		info.MaximumStay = cfg.MaximumStay
	}
	return info
}

// DefaultPricing returns the pricing notes for the property.
func DefaultPricing() Pricing {
	return Pricing{
		Note:        "Pricing varies by date and season",
		NightlyRate: "Variable - requires date selection",
		CleaningFee: "Applies per stay",
		AdditionalNote: "Severe cleaning jobs that create an unfair amount of work for cleaning crew " +
			"will cost double the cleaning fee",
	}
}

// DefaultSafety returns the safety devices for the property.
func DefaultSafety() Safety {
	return Safety{
		Devices:         []string{"Smoke alarm", "Carbon monoxide alarm", "Fire extinguisher", "First aid kit"},
		EmergencyNumber: "911",
	}
}

// AirbnbURLWithDates appends check_in/check_out to base when both are set.
// Otherwise base is returned untouched.
func AirbnbURLWithDates(base, checkIn, checkOut string) string {
	if checkIn == "" || checkOut == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "check_in=" + url.QueryEscape(checkIn) + "&check_out=" + url.QueryEscape(checkOut)
}
