package reviews

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SortOrder selects how reviews are ordered.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

// ParseSortOrder accepts the four orders; empty means newest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortHighest, SortLowest:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// RatingFilter is All (0) or an exact star rating 1..5.
type RatingFilter int

// All matches every rating.
const All RatingFilter = 0

// ParseRatingFilter accepts "", "all" or 1..5.
func ParseRatingFilter(s string) (RatingFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return All, fmt.Errorf("rating must be all or 1-5, got %q", s)
	}
	return RatingFilter(n), nil
}

// Params bundles the review list query string.
type Params struct {
	Rating  RatingFilter
	Sort    SortOrder
	Keyword string
}

// ParseDate reads a "Month Year" review date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type datedReview struct {
	review Review
	at     time.Time
	known  bool
}

// Sort returns a stably sorted copy of list. Reviews with unreadable dates
// go last for both date orders.
func Sort(list []Review, order SortOrder) []Review {
	out := make([]Review, len(list))
	copy(out, list)

	switch order {
	case SortHighest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortLowest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	case SortOldest, SortNewest:
		keyed := make([]datedReview, len(out))
		for i, r := range out {
			t, ok := ParseDate(r.Date)
			keyed[i] = datedReview{review: r, at: t, known: ok}
		}
		sort.SliceStable(keyed, func(i, j int) bool {
			a, b := keyed[i], keyed[j]
			switch {
			case !a.known:
				return false
			case !b.known:
				return true
			case order == SortOldest:
				return a.at.Before(b.at)
			default:
				return a.at.After(b.at)
			}
		})
		for i, k := range keyed {
			out[i] = k.review
		}
	}
	return out
}

// Filter keeps reviews matching rating.
func Filter(list []Review, rating RatingFilter) []Review {
	out := make([]Review, 0, len(list))
	for _, r := range list {
		if rating == All || r.Rating == int(rating) {
			out = append(out, r)
		}
	}
	return out
}

// Query filters then sorts.
func Query(list []Review, rating RatingFilter, order SortOrder) []Review {
	return Sort(Filter(list, rating), order)
}

// Search keeps reviews whose text or author contains keyword, ignoring case.
func Search(list []Review, keyword string) []Review {
	needle := strings.ToLower(keyword)
	out := make([]Review, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Text), needle) || strings.Contains(strings.ToLower(r.Author), needle) {
			out = append(out, r)
		}
	}
	return out
}
