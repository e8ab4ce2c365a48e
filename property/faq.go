package property

import (
	"fmt"
	"strings"
)

// FAQ categories.
const (
	FAQBooking  = "booking"
	FAQPolicies = "policies"
	FAQProperty = "property"
	FAQGeneral  = "general"
)

// FAQ is one question and answer.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// FAQsFromHouseRules derives questions from the structured house rules.
func FAQsFromHouseRules(r HouseRules) []FAQ {
	var faqs []FAQ

	if r.CheckInTime != "" && r.CheckOutTime != "" {
		faqs = append(faqs, FAQ{
			ID:       "checkin-checkout",
			Question: "What are the check-in and check-out times?",
			Answer:   fmt.Sprintf("Check-in is %s and check-out is %s.", r.CheckInTime, r.CheckOutTime),
			Category: FAQBooking,
		})
	}

	pets := "No, pets are not permitted inside the property."
	if r.PetsAllowed {
		pets = "Yes, pets are welcome at the property."
		if r.MaxPets > 0 {
			pets = fmt.Sprintf("Yes, pets are welcome (up to %d).", r.MaxPets)
		}
	}
	faqs = append(faqs, FAQ{ID: "pets", Question: "Are pets allowed?", Answer: pets, Category: FAQPolicies})

	if r.QuietHours != "" {
		faqs = append(faqs, FAQ{
			ID:       "quiet-hours",
			Question: "Are there quiet hours?",
			Answer:   fmt.Sprintf("Quiet hours run from %s.", r.QuietHours),
			Category: FAQPolicies,
		})
	}

	smoking := "Smoking is not allowed inside or on the property."
	if r.SmokingAllowed {
		smoking = "Smoking is allowed outdoors only; please dispose responsibly."
	}
	faqs = append(faqs, FAQ{ID: "smoking", Question: "Is smoking allowed?", Answer: smoking, Category: FAQPolicies})

	events := "Events, parties, or large gatherings are not permitted."
	if r.EventsAllowed {
		events = "Small gatherings are allowed with prior approval."
	}
	faqs = append(faqs, FAQ{ID: "events", Question: "Can I host events or parties?", Answer: events, Category: FAQPolicies})

	children := "This property is limited to adult guests only."
	if r.ChildrenAllowed {
		children = "Yes, children of all ages are welcome."
	}
	faqs = append(faqs, FAQ{ID: "children", Question: "Are children allowed?", Answer: children, Category: FAQPolicies})

	if r.Parking != "" {
		faqs = append(faqs, FAQ{ID: "parking", Question: "Is parking available on site?", Answer: r.Parking, Category: FAQProperty})
	}

	for i, rule := range r.AdditionalRules {
		faqs = append(faqs, FAQ{
			ID:       fmt.Sprintf("additional-rule-%d", i+1),
			Question: fmt.Sprintf("Additional important information %d", i+1),
			Answer:   rule,
			Category: FAQGeneral,
		})
	}
	return faqs
}

// AllFAQs returns the house rule questions followed by the curated ones.
func AllFAQs(l Listing) []FAQ {
	faqs := FAQsFromHouseRules(l.HouseRules)
	return append(faqs,
		FAQ{
			ID:       "cancellation",
			Question: "What is the cancellation policy?",
			Answer:   "Please review the cancellation policy directly on Airbnb or VRBO when booking, as terms vary by date and platform.",
			Category: FAQBooking,
		},
		FAQ{
			ID:       "amenities-overview",
			Question: "Which amenities are included?",
			Answer:   "High-speed WiFi, a stocked kitchen, kayaks, boat slip, and workspace setups are available. Visit the Amenities page for the full list.",
			Category: FAQProperty,
		},
		FAQ{
			ID:       "minimum-stay",
			Question: "Is there a minimum stay?",
			Answer:   fmt.Sprintf("Yes, the minimum stay is %d nights.", l.HouseRules.MinimumStay),
			Category: FAQBooking,
		},
	)
}

// FilterFAQs keeps entries in category.
func FilterFAQs(faqs []FAQ, category string) []FAQ {
	out := make([]FAQ, 0, len(faqs))
	for _, f := range faqs {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// SearchFAQs matches keyword against question and answer, ignoring case.
func SearchFAQs(faqs []FAQ, keyword string) []FAQ {
	needle := strings.ToLower(keyword)
	out := make([]FAQ, 0, len(faqs))
	for _, f := range faqs {
		if strings.Contains(strings.ToLower(f.Question), needle) || strings.Contains(strings.ToLower(f.Answer), needle) {
			out = append(out, f)
		}
	}
	return out
}
