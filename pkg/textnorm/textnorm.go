// Package textnorm canonicalizes free text (names, unit names, statuses) so that
// spreadsheet values differing only in case, accents or spacing compare equal.
package textnorm

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, strips diacritics, collapses whitespace runs to a single
// space and trims. It is total and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(stripMarks(s))), " ")
}

// Slugify is Normalize with every non-alphanumeric rune removed. It is used to
// build composite keys, never for display matching.
func Slugify(s string) string {
	normalized := Normalize(s)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeValue normalizes an untyped spreadsheet cell; nil yields "".
func NormalizeValue(v interface{}) string {
	return Normalize(String(v))
}

// String renders an untyped cell as text. Whole floats print without a fraction
// so numeric cells such as phone numbers survive JSON decoding.
func String(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}

// Contains reports whether the normalized form of b occurs in the normalized form of a.
func Contains(a, b string) bool {
	return strings.Contains(Normalize(a), Normalize(b))
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
