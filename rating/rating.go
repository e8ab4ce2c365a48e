// Package rating converts numeric guest ratings into display values.
package rating

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxStars is the length of every star row.
const MaxStars = 5

// Star is a single star in a rating row.
type Star string

const (
	Full  Star = "full"
	Empty Star = "empty"
)

// StarArray returns five stars where position i (1-based) is Full when i <= rating.
// Out-of-range ratings are not clamped: above 5 is all Full, below 1 all Empty.
func StarArray(rating float64) [MaxStars]Star {
	var stars [MaxStars]Star
	for i := 1; i <= MaxStars; i++ {
		if float64(i) <= rating {
			stars[i-1] = Full
		} else {
			stars[i-1] = Empty
		}
	}
	return stars
}

// Percentage returns count/total as a whole percent, or 0 when total is 0.
func Percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(count)/float64(total)*100 + 0.5))
}

// Format renders rating with a fixed number of decimals.
func Format(rating float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(rating, 'f', decimals, 64)
}

// FormatDefault renders rating with two decimals.
func FormatDefault(rating float64) string {
	return Format(rating, 2)
}

// Label buckets a rating into a short description.
func Label(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Excellent"
	case rating >= 4.0:
		return "Very Good"
	case rating >= 3.0:
		return "Good"
	case rating >= 2.0:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// Average returns the mean of ratings, 0 for an empty slice.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

var summaryPrinter = message.NewPrinter(language.AmericanEnglish)

// Summary renders "4.88 out of 5 based on 41 reviews".
func Summary(overall float64, total int) string {
	return summaryPrinter.Sprintf("%s out of 5 based on %d reviews", FormatDefault(overall), total)
}
