// Package reviews holds the guest review catalog and the queries the site
// runs over it.
package reviews

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// SourceAirbnb marks reviews scraped from the Airbnb listing.
const SourceAirbnb = "airbnb"

// DateLayout is the "Month Year" form review dates are written in.
const DateLayout = "January 2006"

// Review is one guest review.
type Review struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Location    string `json:"location"`
	Rating      int    `json:"rating"`
	Date        string `json:"date"`
	StayDetails string `json:"stayDetails"`
	Text        string `json:"text"`
	Source      string `json:"source"`
}

// Stats summarizes a set of reviews.
type Stats struct {
	OverallRating   float64     `json:"overallRating"`
	TotalReviews    int         `json:"totalReviews"`
	RatingBreakdown map[int]int `json:"ratingBreakdown"`
}

func emptyBreakdown() map[int]int {
	return map[int]int{5: 0, 4: 0, 3: 0, 2: 0, 1: 0}
}

// ComputeStats derives the breakdown, total and average (two decimals) from list.
// Ratings outside 1..5 count toward the total and average but not the breakdown.
func ComputeStats(list []Review) Stats {
	stats := Stats{RatingBreakdown: emptyBreakdown()}
	if len(list) == 0 {
		return stats
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
		if _, ok := stats.RatingBreakdown[r.Rating]; ok {
			stats.RatingBreakdown[r.Rating]++
		}
	}
	stats.TotalReviews = len(list)
	stats.OverallRating = math.Round(float64(sum)/float64(len(list))*100) / 100
	return stats
}

// Document is the on-disk form of the catalog.
type Document struct {
	Reviews []Review `json:"reviews"`
	Stats   Stats    `json:"stats"`
}

//go:embed data/reviews.json
var embeddedReviews []byte

// Catalog is an immutable set of reviews with the stats published alongside them.
type Catalog struct {
	reviews   []Review
	published Stats
}

// Drift is derived minus published stats.
type Drift struct {
	TotalReviews    int         `json:"totalReviews"`
	OverallRating   float64     `json:"overallRating"`
	RatingBreakdown map[int]int `json:"ratingBreakdown"`
	InSync          bool        `json:"inSync"`
}

// Load reads a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	if doc.Stats.RatingBreakdown == nil {
		doc.Stats.RatingBreakdown = emptyBreakdown()
	}
	return &Catalog{reviews: doc.Reviews, published: doc.Stats}, nil
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return Load(bytes.NewReader(embeddedReviews))
}

// NewCatalog builds a catalog from in-memory data.
func NewCatalog(list []Review, published Stats) *Catalog {
	cp := make([]Review, len(list))
	copy(cp, list)
	if published.RatingBreakdown == nil {
		published.RatingBreakdown = emptyBreakdown()
	}
	return &Catalog{reviews: cp, published: published}
}

// All returns a copy of every review in catalog order.
func (c *Catalog) All() []Review {
	cp := make([]Review, len(c.reviews))
	copy(cp, c.reviews)
	return cp
}

// Len returns the number of reviews.
func (c *Catalog) Len() int {
	return len(c.reviews)
}

// PublishedStats returns the stats authored with the data set.
func (c *Catalog) PublishedStats() Stats {
	out := c.published
	out.RatingBreakdown = make(map[int]int, len(c.published.RatingBreakdown))
	for k, v := range c.published.RatingBreakdown {
		out.RatingBreakdown[k] = v
	}
	return out
}

// DerivedStats computes stats from the review list itself.
func (c *Catalog) DerivedStats() Stats {
	return ComputeStats(c.reviews)
}

// Drift compares derived stats against the published ones.
func (c *Catalog) Drift() Drift {
	derived := c.DerivedStats()
	published := c.PublishedStats()

	d := Drift{
		TotalReviews:    derived.TotalReviews - published.TotalReviews,
		OverallRating:   math.Round((derived.OverallRating-published.OverallRating)*100) / 100,
		RatingBreakdown: emptyBreakdown(),
		InSync:          true,
	}
	for star := range d.RatingBreakdown {
		d.RatingBreakdown[star] = derived.RatingBreakdown[star] - published.RatingBreakdown[star]
		if d.RatingBreakdown[star] != 0 {
			d.InSync = false
		}
	}
	if d.TotalReviews != 0 || d.OverallRating != 0 {
		d.InSync = false
	}
	return d
}

// Query searches, filters and sorts the catalog.
func (c *Catalog) Query(p Params) []Review {
	list := c.reviews
	if p.Keyword != "" {
		list = Search(list, p.Keyword)
	}
	return Query(list, p.Rating, p.Sort)
}
