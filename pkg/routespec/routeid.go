package routespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Route codes such as "14A" or "81N" are folded into one unsigned id: the
// numeric part plus a band offset for the trailing letter. Base numbers must
// stay under BandWidth so that bands never overlap a plain route number.
const (
	BandWidth uint64 = 1_000

	BandA uint64 = 1_000
	BandB uint64 = 2_000
	BandE uint64 = 5_000
	BandN uint64 = 14_000
	BandS uint64 = 19_000
	BandW uint64 = 23_000
)

var suffixBands = map[byte]uint64{
	'a': BandA,
	'b': BandB,
	'e': BandE,
	'n': BandN,
	's': BandS,
	'w': BandW,
}

var routeCodeDigits = regexp.MustCompile(`\d+`)

func ParseRouteID(code string) (uint64, error) {
	code = strings.TrimSpace(code)

	if code != "" && isDigitsOnly(code) {
		base, err := strconv.ParseUint(code, 10, 64)
		if err != nil {
			return 0, &ConfigurationError{Route: code, Reason: err.Error()}
		}
		if base >= BandWidth {
			return 0, &ConfigurationError{Route: code, Reason: fmt.Sprintf("route number %d collides with suffix bands", base)}
		}

		return base, nil
	}

	match := routeCodeDigits.FindString(code)
	if match == "" {
		return 0, &ConfigurationError{Route: code, Reason: "unexpected route id"}
	}

	base, err := strconv.ParseUint(match, 10, 64)
	if err != nil {
		return 0, &ConfigurationError{Route: code, Reason: err.Error()}
	}
	if base >= BandWidth {
		return 0, &ConfigurationError{Route: code, Reason: fmt.Sprintf("route number %d collides with suffix bands", base)}
	}

	suffix := strings.ToLower(code)[len(code)-1]
	band, exists := suffixBands[suffix]
	if !exists {
		return 0, &ConfigurationError{Route: code, Reason: "unexpected route id suffix"}
	}

	return band + base, nil
}

// FormatRouteID is the inverse of ParseRouteID, used for log and error output.
func FormatRouteID(id uint64) string {
	base := id % BandWidth
	band := id - base

	if band == 0 {
		return strconv.FormatUint(base, 10)
	}

	for suffix, suffixBand := range suffixBands {
		if suffixBand == band {
			return strconv.FormatUint(base, 10) + strings.ToUpper(string(suffix))
		}
	}

	return strconv.FormatUint(id, 10)
}

func isDigitsOnly(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
