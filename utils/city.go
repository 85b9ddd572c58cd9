package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// ExtractCity returns the text before the first comma of a place, trimmed.
func ExtractCity(place string) string {
	if i := strings.Index(place, ","); i >= 0 {
		place = place[:i]
	}
	return strings.TrimSpace(place)
}

// SameName reports whether a and b are equal ignoring case.
func SameName(a, b string) bool {
	return lower.String(a) == lower.String(b)
}

// ContainsName reports whether name contains part, ignoring case.
func ContainsName(name, part string) bool {
	return strings.Contains(lower.String(name), lower.String(part))
}

// Capitalize upper-cases the first letter and lower-cases the rest,
// e.g. "ERNAKULAM JN" becomes "Ernakulam jn".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return upper.String(s[:size]) + lower.String(s[size:])
}
