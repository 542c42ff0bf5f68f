package srctl

import "strings"

// Direction names a source and target language pair understood by the
// translation backend, e.g. "jpn-eng".
type Direction string

// AvailableDirections is the allow-list of direction tokens, in display order.
// The "jpg" spelling is the one the backend expects for Japanese targets.
var AvailableDirections = []Direction{
	"jpn-eng",
	"eng-jpg",
	"jpn-fra",
	"fra-jpg",
	"eng-fra",
	"fra-eng",
}

// LanguageNames maps the three-letter codes used in directions to human-readable names.
var LanguageNames = map[string]string{
	"jpn": "Japanese",
	"jpg": "Japanese",
	"eng": "English",
	"fra": "French",
}

// ParseDirection lower-cases s and validates it against AvailableDirections.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AvailableDirections {
		if d == known {
			return d, nil
		}
	}
	return "", &ValidationError{Field: "direction", Value: s, Cause: ErrInvalidDirection}
}

// AvailableDirectionsString returns the allow-list as a comma-separated list.
func AvailableDirectionsString() string {
	parts := make([]string, len(AvailableDirections))
	for i, d := range AvailableDirections {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

// Source returns the source language code ("jpn" for "jpn-eng").
func (d Direction) Source() string {
	src, _, _ := strings.Cut(string(d), "-")
	return src
}

// Target returns the target language code ("eng" for "jpn-eng").
func (d Direction) Target() string {
	_, dst, _ := strings.Cut(string(d), "-")
	return dst
}

// String returns the direction token.
func (d Direction) String() string {
	return string(d)
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// IsJapanese reports whether code denotes Japanese. Both "jpn" and the
// backend's "jpg" target spelling qualify.
func IsJapanese(code string) bool {
	code = strings.ToLower(code)
	return code == "jpn" || code == "jpg"
}

// isSameLanguage reports whether the direction translates a language into itself.
func (d Direction) isSameLanguage() bool {
	return GetLanguageName(d.Source()) == GetLanguageName(d.Target())
}
