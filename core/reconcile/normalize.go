package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// DefaultSeparators are the characters stripped from label fields before they
// are compared with a scanned code.
const DefaultSeparators = "- "

// Normalize trims the raw code, folds full-width characters to their ASCII
// form and upper-cases the result.
// Keyboard-wedge scanners on IME-enabled hosts deliver full-width digits and
// letters, which would otherwise never compare equal to label data.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = width.Narrow.String(s)
	// A Caser is stateful and must not be shared between sessions.
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// Clean normalizes a label field and removes every separator character.
func Clean(field, separators string) string {
	s := Normalize(field)
	if separators == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return -1
		}
		return r
	}, s)
}
