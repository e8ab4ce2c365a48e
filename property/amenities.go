package property

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Amenity is one item in an amenity category.
type Amenity struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// AmenityGroup is a category with its display name and items.
type AmenityGroup struct {
	Category    string    `json:"category"`
	DisplayName string    `json:"displayName"`
	Items       []Amenity `json:"items"`
}

func available(names ...string) []Amenity {
	out := make([]Amenity, len(names))
	for i, n := range names {
		out[i] = Amenity{Name: n, Available: true}
	}
	return out
}

var categoryOrder = []string{
	"bathroom",
	"bedroomAndLaundry",
	"entertainment",
	"heatingAndCooling",
	"homeSafety",
	"internetAndOffice",
	"kitchenAndDining",
	"locationFeatures",
	"outdoor",
	"parkingAndFacilities",
	"services",
}

var displayNames = map[string]string{
	"bathroom":             "Bathroom",
	"bedroomAndLaundry":    "Bedroom & Laundry",
	"entertainment":        "Entertainment",
	"heatingAndCooling":    "Heating & Cooling",
	"homeSafety":           "Home Safety",
	"internetAndOffice":    "Internet & Office",
	"kitchenAndDining":     "Kitchen & Dining",
	"locationFeatures":     "Location Features",
	"outdoor":              "Outdoor",
	"parkingAndFacilities": "Parking & Facilities",
	"services":             "Services",
}

var amenities = map[string][]Amenity{
	"bathroom": available("Bathtub", "Hair dryer", "Cleaning products", "Shampoo", "Conditioner",
		"Body soap", "Hot water", "Shower gel"),
	"bedroomAndLaundry": available("Washer", "Free dryer - In unit",
		"Essentials (Towels, bed sheets, soap, and toilet paper)", "Hangers", "Bed linens", "Iron",
		"Clothing storage: walk-in closet, closet, and dresser"),
	"entertainment":     available("TV", "Books and reading material"),
	"heatingAndCooling": available("Air conditioning", "Indoor fireplace", "Ceiling fan", "Portable fans", "Central heating"),
	"homeSafety":        available("Smoke alarm", "Carbon monoxide alarm", "Fire extinguisher", "First aid kit"),
	"internetAndOffice": available("Wifi", "Dedicated workspace"),
	"kitchenAndDining": available("Kitchen", "Refrigerator", "Microwave",
		"Cooking basics (Pots and pans, oil, salt and pepper)", "Dishes and silverware", "Freezer",
		"Dishwasher", "Electric stove", "Stainless steel single oven",
		"Coffee maker (drip coffee maker, Keurig)", "Wine glasses", "Toaster", "Baking sheet", "Blender",
		"Dining table", "Coffee"),
	"locationFeatures":     available("Waterfront (Right next to a body of water)"),
	"outdoor":              available("Private patio or balcony", "Outdoor furniture", "Outdoor dining area", "BBQ grill", "Kayak", "Boat slip"),
	"parkingAndFacilities": available("Free parking on premises"),
	"services":             available("Pets allowed", "Long term stays allowed", "Self check-in (Smart lock)"),
}

// Categories returns the amenity category keys in display order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// DisplayName returns the heading for category. Unknown camelCase keys are
// split into words and title-cased.
func DisplayName(category string) string {
	if name, ok := displayNames[category]; ok {
		return name
	}
	var b strings.Builder
	for i, r := range category {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.AmericanEnglish).String(b.String())
}

// ByCategory returns a copy of the items in category, or nil when unknown.
func ByCategory(category string) []Amenity {
	items, ok := amenities[category]
	if !ok {
		return nil
	}
	out := make([]Amenity, len(items))
	copy(out, items)
	return out
}

// Groups returns every category with its items, in display order.
func Groups() []AmenityGroup {
	out := make([]AmenityGroup, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		out = append(out, AmenityGroup{Category: c, DisplayName: DisplayName(c), Items: ByCategory(c)})
	}
	return out
}

// TotalCount is the number of amenities across all categories.
func TotalCount() int {
	total := 0
	for _, items := range amenities {
		total += len(items)
	}
	return total
}
