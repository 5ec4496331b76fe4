// Package dateparse turns the date representations found in the school spreadsheets
// into canonical ISO dates. Both entry points are total: bad input yields a zero value.
package dateparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// ISOLayout is the canonical date format produced by ParseFlexibleDate.
const ISOLayout = "2006-01-02"

var (
	isoPattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	slashPattern   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})(?:\D|$)`)
	longPattern    = regexp.MustCompile(`(\d{1,2})\s+de\s+([a-z]+)\.?\s+(?:de\s+)?(\d{4})`)
	monthYear      = regexp.MustCompile(`^([a-z]+)\.?(?:\s+de\s+|\s*/\s*|\s+)(\d{4})$`)
	serialPattern  = regexp.MustCompile(`^\d{5}(?:\.\d+)?$`)
	zoneNameSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// monthAbbreviations maps the first three letters of a Portuguese month name.
// Order matters: the first matching prefix wins.
var monthAbbreviations = []struct {
	prefix string
	month  time.Month
}{
	{"jan", time.January},
	{"fev", time.February},
	{"mar", time.March},
	{"abr", time.April},
	{"mai", time.May},
	{"jun", time.June},
	{"jul", time.July},
	{"ago", time.August},
	{"set", time.September},
	{"out", time.October},
	{"nov", time.November},
	{"dez", time.December},
}

var monthNames = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// fallbackLayouts approximate generic date parsing for values produced by
// spreadsheet scripts and browsers.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// spreadsheet day zero (Lotus 1-2-3 leap-year bug included).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseFlexibleDate returns value as YYYY-MM-DD, or "" when it cannot be read.
// Accepted: ISO (time part dropped), D/M/YY and D/M/YYYY, "D de <mês> [de] YYYY",
// spreadsheet serial numbers and a handful of generic layouts.
func ParseFlexibleDate(value interface{}) string {
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(ISOLayout)
	}
	if f, ok := value.(float64); ok {
		if t, ok := fromSerial(f); ok {
			return t.Format(ISOLayout)
		}
		return ""
	}

	raw := strings.TrimSpace(textnorm.String(value))
	if isEmpty(raw) {
		return ""
	}
	if m := isoPattern.FindStringSubmatch(raw); m != nil {
		return m[0]
	}
	if t, ok := parseSlash(raw); ok {
		return t.Format(ISOLayout)
	}
	if t, ok := parseLong(raw, false); ok {
		return t.Format(ISOLayout)
	}
	if serialPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			if t, ok := fromSerial(f); ok {
				return t.Format(ISOLayout)
			}
		}
		return ""
	}
	if t, ok := parseFallback(raw); ok {
		return t.Format(ISOLayout)
	}
	return ""
}

// ParseDate is the calendar-arithmetic variant: it accepts everything ParseFlexibleDate
// does plus full month names ("5 de março de 2024", "março/2024") and returns the
// date at UTC midnight. ok is false when nothing matched.
func ParseDate(value interface{}) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, false
		}
		return truncate(t), true
	}
	if f, ok := value.(float64); ok {
		return fromSerial(f)
	}

	raw := strings.TrimSpace(textnorm.String(value))
	if isEmpty(raw) {
		return time.Time{}, false
	}
	if t, ok := parseLong(raw, true); ok {
		return t, true
	}
	if t, ok := parseMonthYear(raw); ok {
		return t, true
	}
	iso := ParseFlexibleDate(raw)
	if iso == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ISOLayout, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Latest returns the most recent parseable date among values.
func Latest(values ...string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, v := range values {
		if t, ok := ParseDate(v); ok && (!found || t.After(best)) {
			best, found = t, true
		}
	}
	return best, found
}

// Earliest returns the oldest parseable date among values.
func Earliest(values ...string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, v := range values {
		if t, ok := ParseDate(v); ok && (!found || t.Before(best)) {
			best, found = t, true
		}
	}
	return best, found
}

func isEmpty(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "null", "undefined", "nan", "-":
		return true
	}
	return false
}

func parseSlash(raw string) (time.Time, bool) {
	m := slashPattern.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	return build(year, time.Month(month), day)
}

func parseLong(raw string, fullNames bool) (time.Time, bool) {
	m := longPattern.FindStringSubmatch(textnorm.Normalize(raw))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := lookupMonth(m[2], fullNames)
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	return build(year, month, day)
}

func parseMonthYear(raw string) (time.Time, bool) {
	m := monthYear.FindStringSubmatch(textnorm.Normalize(raw))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := lookupMonth(m[1], true)
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[2])
	return build(year, month, 1)
}

func lookupMonth(word string, fullNames bool) (time.Month, bool) {
	if fullNames {
		if month, ok := monthNames[word]; ok {
			return month, true
		}
	}
	if len(word) < 3 {
		return 0, false
	}
	for _, entry := range monthAbbreviations {
		if strings.HasPrefix(word, entry.prefix) {
			return entry.month, true
		}
	}
	return 0, false
}

func parseFallback(raw string) (time.Time, bool) {
	candidate := zoneNameSuffix.ReplaceAllString(raw, "")
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return truncate(t), true
		}
	}
	return time.Time{}, false
}

func fromSerial(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > 2958465 {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(f))), true
}

// build rejects overflowing components such as 31/02 instead of letting time.Date roll them over.
func build(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
