package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gilby125/pelicans-place/booking"
	"github.com/gin-gonic/gin"
)

func selection(c *gin.Context, loc *time.Location) (booking.DateRange, bool) {
	sel, err := booking.SelectionFromStrings(c.Query("check_in"), c.Query("check_out"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + err.Error()})
		return booking.DateRange{}, false
	}
	return sel, true
}

// getBookingPage handles GET /api/v1/booking?check_in=&check_out=
func getBookingPage(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, ok := selection(c, deps.now().Location())
		if !ok {
			return
		}
		c.JSON(http.StatusOK, booking.NewPage(deps.bookingInfo(), sel))
	}
}

// getCalendar handles GET /api/v1/booking/calendar?year=&month=&check_in=&check_out=
func getCalendar(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := deps.now()
		year, month := now.Year(), now.Month()

		if v := c.Query("year"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil || y < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
				return
			}
			year = y
		}
		if v := c.Query("month"); v != "" {
			m, err := strconv.Atoi(v)
			if err != nil || m < 1 || m > 12 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Month must be 1-12"})
				return
			}
			month = time.Month(m)
		}

		sel, ok := selection(c, now.Location())
		if !ok {
			return
		}
		c.JSON(http.StatusOK, booking.BuildMonth(year, month, now, sel, deps.bookingInfo().MinimumStay))
	}
}

// DateCheck answers whether a proposed stay can be booked.
type DateCheck struct {
	CheckIn          string `json:"check_in,omitempty"`
	CheckOut         string `json:"check_out,omitempty"`
	CheckInDisabled  bool   `json:"check_in_disabled"`
	CheckOutDisabled bool   `json:"check_out_disabled"`
	ValidRange       bool   `json:"valid_range"`
	Nights           int    `json:"nights"`
	MinimumCheckOut  string `json:"minimum_check_out,omitempty"`
	MeetsMinimumStay bool   `json:"meets_minimum_stay"`
	WithinMaximum    bool   `json:"within_maximum_stay"`
	BookingURL       string `json:"booking_url"`
}

// checkDates handles GET /api/v1/booking/check?check_in=&check_out=
func checkDates(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := deps.now()
		sel, ok := selection(c, now.Location())
		if !ok {
			return
		}
		info := deps.bookingInfo()
		out := DateCheck{BookingURL: info.AirbnbURL}

		if sel.CheckIn != nil {
			out.CheckIn = booking.FormatDateForURL(*sel.CheckIn)
			out.CheckInDisabled = booking.IsDateDisabled(*sel.CheckIn, now)
			out.MinimumCheckOut = booking.FormatDateForURL(booking.MinCheckoutDate(*sel.CheckIn, info.MinimumStay))
		}
		if sel.CheckOut != nil {
			out.CheckOut = booking.FormatDateForURL(*sel.CheckOut)
			out.CheckOutDisabled = booking.IsDateDisabled(*sel.CheckOut, now)
		}
		if booking.IsValidDateRange(sel.CheckIn, sel.CheckOut) {
			out.ValidRange = true
			out.Nights = booking.CalculateNights(*sel.CheckIn, *sel.CheckOut)
			out.MeetsMinimumStay = out.Nights >= info.MinimumStay
			out.WithinMaximum = out.Nights <= info.MaximumStay
			out.BookingURL = booking.AirbnbURLWithDates(info.AirbnbURL, out.CheckIn, out.CheckOut)
		}
		c.JSON(http.StatusOK, out)
	}
}
