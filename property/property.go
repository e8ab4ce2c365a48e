// Package property holds the listing content for Pelican's Place: the
// description, host, location, house rules, amenities and FAQs.
package property

// Capacity is how many people and rooms the house has.
type Capacity struct {
	Guests    int `json:"guests"`
	Bedrooms  int `json:"bedrooms"`
	Beds      int `json:"beds"`
	Bathrooms int `json:"bathrooms"`
}

// Info is the headline listing content.
type Info struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Capacity    Capacity `json:"capacity"`
}

// Highlight is a short selling point.
type Highlight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        Icon   `json:"icon"`
}

// SocialLink points at one of the host's profiles.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     Icon   `json:"icon"`
}

// Host describes the person running the listing.
type Host struct {
	Name          string       `json:"name"`
	Status        string       `json:"status"`
	IsSuperhost   bool         `json:"isSuperhost"`
	YearsHosting  int          `json:"yearsHosting"`
	OverallRating float64      `json:"overallRating"`
	TotalReviews  int          `json:"totalReviews"`
	GuestFavorite bool         `json:"guestFavorite"`
	ResponseTime  string       `json:"responseTime"`
	ResponseRate  string       `json:"responseRate"`
	SocialLinks   []SocialLink `json:"socialLinks"`
}

// Location is the neighborhood and what is nearby.
type Location struct {
	City              string   `json:"city"`
	State             string   `json:"state"`
	Country           string   `json:"country"`
	Area              string   `json:"area"`
	NearbyAttractions []string `json:"nearbyAttractions"`
}

// HouseRules are the stay policies.
type HouseRules struct {
	CheckInTime     string   `json:"checkInTime"`
	CheckOutTime    string   `json:"checkOutTime"`
	CheckInMethod   string   `json:"checkInMethod"`
	MinimumStay     int      `json:"minimumStay"`
	MaximumStay     int      `json:"maximumStay"`
	QuietHours      string   `json:"quietHours"`
	MaxGuests       int      `json:"maxGuests"`
	PetsAllowed     bool     `json:"petsAllowed"`
	MaxPets         int      `json:"maxPets,omitempty"`
	SmokingAllowed  bool     `json:"smokingAllowed"`
	EventsAllowed   bool     `json:"eventsAllowed"`
	ChildrenAllowed bool     `json:"childrenAllowed"`
	Parking         string   `json:"parking"`
	Restrictions    []string `json:"restrictions"`
	AdditionalRules []string `json:"additionalRules"`
	BeforeYouLeave  []string `json:"beforeYouLeave"`
	CleaningNote    string   `json:"cleaningNote"`
}

// Listing is everything shown on the home, about and location pages.
type Listing struct {
	Info       Info        `json:"propertyInfo"`
	Highlights []Highlight `json:"highlights"`
	Host       Host        `json:"host"`
	Location   Location    `json:"locationDetails"`
	HouseRules HouseRules  `json:"houseRules"`
}

const description = `Beautiful waterfront home ideally located at the edge of the Laguna Madre Bay. Quiet getaway near nature and wildlife. Close to beach and local attractions but nestled in a peaceful location.

6 minutes to Whitecap Beach! 13 minutes to National Seashore! Less than 30 minutes to Port Aransas or airport.

Boat slip and nearby launch gets you on the bay in minutes. Fish from dock/multiple nearby spots. 2 Kayaks available.

2 dedicated workspaces and strong WIFI for remote workers or students.

The space
Large master bedroom with new king-size bedding and top-notch mattress. Comfortable living room with large couch and ample room for dining in. Large guest room downstairs with comfortable queen-size mattress. Mattresses are high quality and brand new.

Upstairs guest room includes a twin-over-full bunk bed with trundle underneath. Three full bathrooms so everyone has their own space.

Guest rooms have desks with office chairs and large 24" monitors for remote work and study.

Propane grill available for use on the back deck. Underwater light to enjoy relaxing or fishing at night. 2 kayaks and life jackets available.`

// Default returns the Pelican's Place listing. Each call returns a fresh copy.
func Default() Listing {
	return Listing{
		Info: Info{
			Title:       "Your Bay-to-Beach Haven on the Texas Coast",
			Subtitle:    "Pelican's Place",
			Location:    "Corpus Christi, Texas, United States",
			Description: description,
			Capacity:    Capacity{Guests: 8, Bedrooms: 3, Beds: 5, Bathrooms: 3},
		},
		Highlights: []Highlight{
			{Title: "Self check-in", Description: "Check yourself in with the smartlock.", Icon: IconKey},
			{Title: "Extra spacious", Description: "Guests love this home's spaciousness for a comfortable stay.", Icon: IconHome},
			{Title: "Beautiful area", Description: "Guests love this home's scenic location.", Icon: IconMountain},
		},
		Host: Host{
			Name:          "Gordon",
			Status:        "Superhost",
			IsSuperhost:   true,
			YearsHosting:  4,
			OverallRating: 4.88,
			TotalReviews:  41,
			GuestFavorite: true,
			ResponseTime:  "Within an hour",
			ResponseRate:  "100%",
			SocialLinks: []SocialLink{
				{Platform: "airbnb", URL: "https://www.airbnb.com/h/pelicansplace", Icon: IconAirbnb},
				{Platform: "instagram", URL: "https://www.instagram.com/pelicansplacecoast", Icon: IconInstagram},
				{Platform: "facebook", URL: "https://www.facebook.com/pelicansplacecoast", Icon: IconFacebook},
			},
		},
		Location: Location{
			City:    "Corpus Christi",
			State:   "Texas",
			Country: "United States",
			Area:    "Laguna Madre Bay waterfront",
			NearbyAttractions: []string{
				"6 minutes to Whitecap Beach",
				"13 minutes to National Seashore",
				"Less than 30 minutes to Port Aransas or airport",
			},
		},
		HouseRules: HouseRules{
			CheckInTime:     "After 4:00 PM",
			CheckOutTime:    "Before 10:00 AM",
			CheckInMethod:   "Self check-in with smart lock",
			MinimumStay:     2,
			MaximumStay:     28,
			QuietHours:      "10:00 PM - 7:00 AM",
			MaxGuests:       8,
			PetsAllowed:     true,
			MaxPets:         2,
			SmokingAllowed:  false,
			EventsAllowed:   false,
			ChildrenAllowed: true,
			Parking:         "Driveway parking for two vehicles (larger trucks/SUVs may need to stagger when neighbors have guests).",
			Restrictions:    []string{"No parties or large events", "No commercial photography", "No smoking indoors"},
			AdditionalRules: []string{
				"Gather dishes and start dishwasher when you leave",
				"Start a load of towels in washing machine",
				"Put trash in the can outside front door",
				"Clean up after your pets",
				"Do not use fireplace",
				"Leave AC on 75 when you leave",
				"Don't put AC below 68 during stay as it may cause the unit to freeze",
			},
			BeforeYouLeave: []string{"Gather used towels", "Throw trash away", "Lock up"},
			CleaningNote:   "Severe cleaning jobs that create an unfair amount of work for cleaning crew will cost double the cleaning fee.",
		},
	}
}

// CheckInInfo is the arrival summary shown on the booking page.
type CheckInInfo struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Method   string `json:"method"`
}

// CheckIn extracts the arrival summary from the house rules.
func (r HouseRules) CheckIn() CheckInInfo {
	return CheckInInfo{CheckIn: r.CheckInTime, CheckOut: r.CheckOutTime, Method: r.CheckInMethod}
}
