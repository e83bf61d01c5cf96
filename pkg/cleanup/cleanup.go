package cleanup

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type replacement struct {
	pattern *regexp.Regexp
	value   string
}

func word(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(` + pattern + `)([^\p{L}\p{N}]|$)`)
}

var streetTypes = []replacement{
	{word("avenue"), "${1}Ave${3}"},
	{word("boulevard"), "${1}Blvd${3}"},
	{word("court"), "${1}Ct${3}"},
	{word("crescent"), "${1}Cres${3}"},
	{word("drive"), "${1}Dr${3}"},
	{word("highway"), "${1}Hwy${3}"},
	{word("lane"), "${1}Ln${3}"},
	{word("parkway"), "${1}Pkwy${3}"},
	{word("place"), "${1}Pl${3}"},
	{word("road"), "${1}Rd${3}"},
	{word("street"), "${1}St${3}"},
	{word("terrace"), "${1}Terr${3}"},
	{word("trail"), "${1}Trl${3}"},
}

var numbers = []replacement{
	{word("first"), "${1}1st${3}"},
	{word("second"), "${1}2nd${3}"},
	{word("third"), "${1}3rd${3}"},
	{word("fourth"), "${1}4th${3}"},
	{word("fifth"), "${1}5th${3}"},
	{word("sixth"), "${1}6th${3}"},
	{word("seventh"), "${1}7th${3}"},
	{word("eighth"), "${1}8th${3}"},
	{word("ninth"), "${1}9th${3}"},
	{word("tenth"), "${1}10th${3}"},
}

var (
	andWord = word("and")
	atWord  = word("at")
	goWord  = word("go")

	slashes         = regexp.MustCompile(`(\S)\s*/\s*(\S)`)
	whitespace      = regexp.MustCompile(`\s+`)
	leadingRouteNum = regexp.MustCompile(`^\d+ `)
	trailingVia     = regexp.MustCompile(`(?i) via .*$`)
	wordStart       = regexp.MustCompile(`(^|[\s/(\-])(\p{Ll})`)

	lower = cases.Lower(language.English)
)

// replaceAll applies pattern until the string stops changing, so adjacent
// matches sharing a separator are all replaced.
func replaceAll(pattern *regexp.Regexp, value string, with string) string {
	for {
		replaced := pattern.ReplaceAllString(value, with)
		if replaced == value {
			return replaced
		}
		value = replaced
	}
}

func apply(value string, replacements []replacement) string {
	for _, r := range replacements {
		value = replaceAll(r.pattern, value, r.value)
	}

	return value
}

func CleanStreetTypes(value string) string {
	return apply(value, streetTypes)
}

func CleanNumbers(value string) string {
	return apply(value, numbers)
}

// CleanAnd turns the word "and" into "&".
func CleanAnd(value string) string {
	return replaceAll(andWord, value, "${1}&${3}")
}

// CleanAt turns the word "at" into "/" as used between two street names.
func CleanAt(value string) string {
	return replaceAll(atWord, value, "${1}/${3}")
}

func CleanGO(value string) string {
	return replaceAll(goWord, value, "${1}GO${3}")
}

// CleanSlashes puts exactly one space on each side of a slash.
func CleanSlashes(value string) string {
	return slashes.ReplaceAllString(value, "${1} / ${2}")
}

// CleanLabel collapses whitespace and upper-cases the first letter of every
// word. The rest of each word is left alone.
func CleanLabel(value string) string {
	value = strings.TrimSpace(whitespace.ReplaceAllString(value, " "))

	return wordStart.ReplaceAllStringFunc(value, func(match string) string {
		runes := []rune(match)
		last := len(runes) - 1
		runes[last] = unicode.ToUpper(runes[last])

		return string(runes)
	})
}

// IsUppercase reports whether every letter in value is upper case and there
// is at least one letter.
func IsUppercase(value string) bool {
	hasLetter := false

	for _, r := range value {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		hasLetter = true
	}

	return hasLetter
}

func Lower(value string) string {
	return lower.String(value)
}

// StopName cleans a feed stop name for display.
func StopName(name string) string {
	name = CleanAt(name)
	name = CleanAnd(name)
	name = CleanStreetTypes(name)
	name = CleanNumbers(name)

	return CleanLabel(name)
}

// TripHeadsign cleans a feed headsign for routes that keep the feed's own
// headsigns.
func TripHeadsign(headsign string) string {
	if IsUppercase(headsign) {
		headsign = Lower(headsign)
	}

	headsign = leadingRouteNum.ReplaceAllString(headsign, "")
	headsign = trailingVia.ReplaceAllString(headsign, "")
	headsign = CleanGO(headsign)
	headsign = CleanAnd(headsign)
	headsign = CleanSlashes(headsign)
	headsign = CleanStreetTypes(headsign)
	headsign = CleanNumbers(headsign)

	return CleanLabel(headsign)
}

// RouteLongName lower-cases the feed long name before cleaning it.
func RouteLongName(name string) string {
	name = Lower(name)
	name = CleanAnd(name)
	name = CleanSlashes(name)
	name = CleanStreetTypes(name)
	name = CleanNumbers(name)

	return CleanLabel(name)
}
