package reviews

import (
	"encoding/json"
	"fmt"
	"io"
)

// ScrapedReview is one record of a listing scrape.
type ScrapedReview struct {
	ID          string  `json:"id"`
	Author      string  `json:"author"`
	Location    string  `json:"location"`
	Rating      int     `json:"rating"`
	Date        *string `json:"date"`
	StayContext string  `json:"stayContext"`
	Body        string  `json:"body"`
}

// UnknownDate is stored when a scrape has no date. It sorts last.
const UnknownDate = "Unknown"

// Import normalizes scraped records into reviews, dropping duplicate ids.
func Import(raw []ScrapedReview) []Review {
	out := make([]Review, 0, len(raw))
	for _, item := range raw {
		date := UnknownDate
		if item.Date != nil && *item.Date != "" {
			date = Normalize(*item.Date)
		}
		out = append(out, Review{
			ID:          item.ID,
			Author:      Normalize(item.Author),
			Location:    Normalize(item.Location),
			Rating:      item.Rating,
			Date:        date,
			StayDetails: Normalize(item.StayContext),
			Text:        Normalize(item.Body),
			Source:      SourceAirbnb,
		})
	}
	return Dedupe(out)
}

// ReadScrape decodes a scrape file.
func ReadScrape(r io.Reader) ([]ScrapedReview, error) {
	var raw []ScrapedReview
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode scrape: %w", err)
	}
	return raw, nil
}

// WriteDocument writes list with freshly computed stats as indented JSON.
func WriteDocument(w io.Writer, list []Review) (Stats, error) {
	doc := Document{Reviews: list, Stats: ComputeStats(list)}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return Stats{}, fmt.Errorf("failed to encode reviews: %w", err)
	}
	return doc.Stats, nil
}
