package geocode

import "strings"

// Fixed table of common misspellings and transliteration typos seen in
// trade contact data. This is a best-effort lookup, not a spell-checker:
// unknown cities pass through unchanged.
var citySpellings = map[string]string{
	"BARCALONA":    "BARCELONA",
	"ROTERDAM":     "ROTTERDAM",
	"ANTWERPEN":    "ANTWERP",
	"MILANO":       "MILAN",
	"WARSCHAU":     "WARSAW",
	"MOSKOW":       "MOSCOW",
	"KOLN":         "COLOGNE",
	"SEVILLIA":     "SEVILLE",
	"S-GRAVENHAGE": "THE HAGUE",
}

// correctCity applies the spelling table to a city name, preserving the
// caller's original value when no correction is known.
func correctCity(city string) string {
	key := strings.ToUpper(strings.TrimSpace(city))
	if fixed, ok := citySpellings[key]; ok {
		return fixed
	}
	return city
}
