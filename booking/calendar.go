package booking

import "time"

// CalendarDay is one tile of the month grid.
type CalendarDay struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	InMonth    bool   `json:"in_month"`
	Disabled   bool   `json:"disabled"`
	IsToday    bool   `json:"is_today"`
	IsCheckIn  bool   `json:"is_check_in"`
	IsCheckOut bool   `json:"is_check_out"`
	InRange    bool   `json:"in_range"`
}

// CalendarMonth is a Sunday-first grid of whole weeks covering one month.
type CalendarMonth struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Title       string          `json:"title"`
	MinimumStay int             `json:"minimum_stay"`
	Weeks       [][]CalendarDay `json:"weeks"`
}

// BuildMonth lays out the calendar for year/month in now's location.
//
// Days before today are disabled. While a check-in is picked but no
// check-out yet, the days inside the minimum stay window are disabled too.
func BuildMonth(year int, month time.Month, now time.Time, sel DateRange, minimumStay int) CalendarMonth {
	if minimumStay <= 0 {
		minimumStay = DefaultMinimumStay
	}
	loc := now.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	today := StartOfDay(now)

	var checkIn, checkOut, minCheckout time.Time
	pending := false
	if sel.CheckIn != nil {
		checkIn = StartOfDay(sel.CheckIn.In(loc))
		if sel.CheckOut == nil {
			pending = true
			minCheckout = MinCheckoutDate(checkIn, minimumStay)
		}
	}
	if sel.Valid() {
		checkOut = StartOfDay(sel.CheckOut.In(loc))
	}

	cal := CalendarMonth{
		Year:        first.Year(),
		Month:       int(first.Month()),
		Title:       first.Format("January 2006"),
		MinimumStay: minimumStay,
	}

	var week []CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := CalendarDay{
			Date:     FormatDateForURL(d),
			Day:      d.Day(),
			InMonth:  d.Month() == month,
			Disabled: IsDateDisabled(d, now),
			IsToday:  d.Equal(today),
		}
		if !checkIn.IsZero() && d.Equal(checkIn) {
			day.IsCheckIn = true
		}
		if pending && d.After(checkIn) && d.Before(minCheckout) {
			day.Disabled = true
		}
		if !checkOut.IsZero() {
			day.IsCheckOut = d.Equal(checkOut)
			day.InRange = !d.Before(checkIn) && !d.After(checkOut)
		}

		week = append(week, day)
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = nil
		}
	}

	return cal
}
