package property

import (
	"encoding/json"
	"strings"
)

// Icon is a glyph the front end knows how to draw.
type Icon int

const (
	IconUnknown Icon = iota
	IconKey
	IconHome
	IconMountain
	IconAirbnb
	IconInstagram
	IconFacebook
)

var iconNames = map[Icon]string{
	IconUnknown:   "",
	IconKey:       "key",
	IconHome:      "home",
	IconMountain:  "mountain",
	IconAirbnb:    "airbnb",
	IconInstagram: "instagram",
	IconFacebook:  "facebook",
}

// iconAliases maps stored identifiers, including legacy "Fa*" names, to icons.
var iconAliases = map[string]Icon{
	"key":         IconKey,
	"fakey":       IconKey,
	"home":        IconHome,
	"fahome":      IconHome,
	"mountain":    IconMountain,
	"famountain":  IconMountain,
	"airbnb":      IconAirbnb,
	"faairbnb":    IconAirbnb,
	"instagram":   IconInstagram,
	"fainstagram": IconInstagram,
	"facebook":    IconFacebook,
	"fafacebook":  IconFacebook,
}

// ParseIcon resolves an identifier. Anything unrecognized is IconUnknown,
// which renders without a glyph.
func ParseIcon(name string) Icon {
	if icon, ok := iconAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return IconUnknown
}

func (i Icon) String() string {
	return iconNames[i]
}

// MarshalJSON writes the icon name, or null when unknown.
func (i Icon) MarshalJSON() ([]byte, error) {
	if i == IconUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(i.String())
}

// UnmarshalJSON accepts any identifier ParseIcon does.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var name *string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == nil {
		*i = IconUnknown
		return nil
	}
	*i = ParseIcon(*name)
	return nil
}
