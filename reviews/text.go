package reviews

import (
	"strings"
	"unicode"

	anyascii "github.com/anyascii/go"
)

// PreviewLimit is the character count a collapsed review shows.
const PreviewLimit = 320

// previewSlack is how far back from the limit a word boundary may be.
const previewSlack = 40

// Preview shortens text for a collapsed card. It cuts at the last space within
// previewSlack characters of the limit, otherwise at the limit, and appends an
// ellipsis. The second result reports whether anything was cut.
func Preview(text string) (string, bool) {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text, false
	}

	cut := PreviewLimit
	for i := PreviewLimit; i >= 0; i-- {
		if runes[i] == ' ' {
			if i > PreviewLimit-previewSlack {
				cut = i
			}
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…", true
}

// Stay kinds pick the icon shown next to a review's stay details.
const (
	StayPet   = "pet"
	StayKids  = "kids"
	StayGroup = "group"
)

// StayKind classifies free-form stay details such as "Stayed with a pet".
func StayKind(stayDetails string) string {
	lower := strings.ToLower(stayDetails)
	switch {
	case strings.Contains(lower, "pet"):
		return StayPet
	case strings.Contains(lower, "kid"):
		return StayKids
	default:
		return StayGroup
	}
}

var smileys = strings.NewReplacer("😎", ":)", "\u00a0", " ")

// Normalize folds typographic punctuation, odd spaces and symbols to ASCII.
// Letters and digits, accented or not, are left alone so names survive.
func Normalize(s string) string {
	s = smileys.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(anyascii.Transliterate(string(r)))
	}
	return b.String()
}

// Dedupe drops reviews whose id was already seen, keeping the first.
func Dedupe(list []Review) []Review {
	seen := make(map[string]struct{}, len(list))
	out := make([]Review, 0, len(list))
	for _, r := range list {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
