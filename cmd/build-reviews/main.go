// Command build-reviews turns a listing scrape into the embedded review
// document: text is normalized, duplicate ids dropped and stats recomputed.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gilby125/pelicans-place/reviews"
)

func main() {
	in := flag.String("in", "tmp/review_scrape.json", "Path to the scraped reviews")
	out := flag.String("out", "reviews/data/reviews.json", "Path of the review document to write")
	dates := map[string]string{}
	flag.Func("date", "Override a review date as id=Month Year (repeatable)", func(v string) error {
		id, date, ok := strings.Cut(v, "=")
		if !ok || id == "" || date == "" {
			return fmt.Errorf("expected id=Month Year, got %q", v)
		}
		dates[id] = date
		return nil
	})
	flag.Parse()

	logger.Init(logger.Config{Level: "info", Format: "text"})

	f, err := os.Open(*in)
	if err != nil {
		logger.Fatal(err, "Failed to open scrape")
	}
	raw, err := reviews.ReadScrape(f)
	f.Close()
	if err != nil {
		logger.Fatal(err, "Failed to read scrape")
	}

	for i := range raw {
		if date, ok := dates[raw[i].ID]; ok {
			raw[i].Date = &date
		}
	}

	list := reviews.Import(raw)

	var buf bytes.Buffer
	stats, err := reviews.WriteDocument(&buf, list)
	if err != nil {
		logger.Fatal(err, "Failed to encode reviews")
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		logger.Fatal(err, "Failed to write review document")
	}

	logger.WithFields(map[string]interface{}{
		"scraped":        len(raw),
		"written":        stats.TotalReviews,
		"overall_rating": stats.OverallRating,
		"out":            *out,
	}).Info("Review document written")
}
