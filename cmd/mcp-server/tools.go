package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gilby125/pelicans-place/booking"
	"github.com/gilby125/pelicans-place/property"
	"github.com/gilby125/pelicans-place/rating"
	"github.com/gilby125/pelicans-place/reviews"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultReviewLimit = 10

// toolset answers guest questions from the same content the website serves.
type toolset struct {
	catalog *reviews.Catalog
	listing property.Listing
	info    booking.Info
	now     func() time.Time
}

func (t *toolset) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("search_reviews",
		mcp.WithDescription("Search guest reviews of Pelican's Place"),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive text to find in the author, location or review text"),
		),
		mcp.WithString("rating",
			mcp.Description("Star rating to keep: 'all' or 1-5. Default all."),
		),
		mcp.WithString("sort",
			mcp.Description("Order: 'newest', 'oldest', 'highest' or 'lowest'. Default newest."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum reviews to return (default 10)"),
		),
	), t.searchReviews)

	s.AddTool(mcp.NewTool("review_stats",
		mcp.WithDescription("Overall guest rating and star breakdown"),
	), t.reviewStats)

	s.AddTool(mcp.NewTool("check_dates",
		mcp.WithDescription("Check a proposed stay against the booking rules and build the booking link"),
		mcp.WithString("check_in",
			mcp.Required(),
			mcp.Description("Check-in date (YYYY-MM-DD)"),
		),
		mcp.WithString("check_out",
			mcp.Required(),
			mcp.Description("Check-out date (YYYY-MM-DD)"),
		),
	), t.checkDates)

	s.AddTool(mcp.NewTool("find_faq",
		mcp.WithDescription("Look up frequently asked questions about the property"),
		mcp.WithString("category",
			mcp.Description("FAQ category: booking, policies, property or general"),
		),
		mcp.WithString("query",
			mcp.Description("Text to find in the question or answer"),
		),
	), t.findFAQ)

	s.AddTool(mcp.NewTool("list_amenities",
		mcp.WithDescription("List the amenities of the property, optionally for one category"),
		mcp.WithString("category",
			mcp.Description("Amenity category such as kitchen, outdoor or safety"),
		),
	), t.listAmenities)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return argsMap
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (t *toolset) searchReviews(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	keyword, _ := args["keyword"].(string)
	ratingStr, _ := args["rating"].(string)
	sortStr, _ := args["sort"].(string)

	limitVal, _ := args["limit"].(float64)
	limit := int(limitVal)
	if limit <= 0 {
		limit = defaultReviewLimit
	}

	filter, err := reviews.ParseRatingFilter(ratingStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid rating: %v", err)), nil
	}
	order, err := reviews.ParseSortOrder(sortStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid sort: %v", err)), nil
	}

	matches := t.catalog.Query(reviews.Params{Rating: filter, Sort: order, Keyword: keyword})
	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return jsonResult(map[string]interface{}{
		"reviews": matches,
		"total":   total,
	})
}

func (t *toolset) reviewStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := t.catalog.PublishedStats()
	return jsonResult(map[string]interface{}{
		"overall":   rating.FormatDefault(stats.OverallRating),
		"label":     rating.Label(stats.OverallRating),
		"summary":   rating.Summary(stats.OverallRating, stats.TotalReviews),
		"total":     stats.TotalReviews,
		"breakdown": stats.RatingBreakdown,
	})
}

func (t *toolset) checkDates(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	checkIn, _ := args["check_in"].(string)
	checkOut, _ := args["check_out"].(string)

	now := t.now()
	sel, err := booking.SelectionFromStrings(checkIn, checkOut, now.Location())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date format: %v", err)), nil
	}
	if sel.CheckIn == nil || sel.CheckOut == nil {
		return mcp.NewToolResultError("check_in and check_out are required"), nil
	}

	page := booking.NewPage(t.info, sel)
	available := page.ValidRange &&
		page.MeetsMinimum &&
		page.Nights <= t.info.MaximumStay &&
		!booking.IsDateDisabled(*sel.CheckIn, now)

	return jsonResult(map[string]interface{}{
		"check_in":     page.CheckInDisplay,
		"check_out":    page.CheckOutDisplay,
		"nights":       page.Nights,
		"valid_range":  page.ValidRange,
		"bookable":     available,
		"minimum_stay": page.MinimumStayNote,
		"maximum_stay": t.info.MaximumStay,
		"booking_url":  page.BookingURL,
	})
}

func (t *toolset) findFAQ(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	category, _ := args["category"].(string)
	query, _ := args["query"].(string)

	faqs := property.AllFAQs(t.listing)
	if category != "" {
		faqs = property.FilterFAQs(faqs, category)
	}
	if query != "" {
		faqs = property.SearchFAQs(faqs, query)
	}
	return jsonResult(map[string]interface{}{"faqs": faqs, "count": len(faqs)})
}

func (t *toolset) listAmenities(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	category, _ := args["category"].(string)
	if category == "" {
		return jsonResult(map[string]interface{}{
			"groups": property.Groups(),
			"total":  property.TotalCount(),
		})
	}

	items := property.ByCategory(category)
	if len(items) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown amenity category: %s", category)), nil
	}
	return jsonResult(map[string]interface{}{
		"category": property.DisplayName(category),
		"items":    items,
	})
}
