// Package lang provides a lightweight offline language detector for
// job-description text. It distinguishes the supported locales by counting
// marker words and language-specific diacritics; no statistical model is
// involved, so detection is deterministic and linear in text length.
package lang

import "strings"

// Locale identifies a supported language.
type Locale string

const (
	// EN is English, the default locale.
	EN Locale = "en"
	// RO is Romanian.
	RO Locale = "ro"
)

// Marker words that strongly suggest one language over the other in a
// job posting. Matched as substrings of the lowercased text.
var (
	markersEN = []string{"responsibilities", "requirements", "experience", "skills", "ability"}
	markersRO = []string{"și", "să", "între", "cunoaștere", "responsabilități", "experiență", "competențe"}
)

// Romanian diacritics. Each occurrence adds to the Romanian score so that
// short texts without marker words still detect correctly.
var diacriticsRO = []rune{'ă', 'â', 'î', 'ș', 'ț'}

// Detect classifies text as EN or RO. Empty text and ties default to EN.
func Detect(text string) Locale {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return EN
	}

	enScore := 0
	for _, m := range markersEN {
		if strings.Contains(t, m) {
			enScore++
		}
	}

	roScore := 0
	for _, m := range markersRO {
		if strings.Contains(t, m) {
			roScore++
		}
	}
	for _, r := range t {
		for _, d := range diacriticsRO {
			if r == d {
				roScore++
				break
			}
		}
	}

	if roScore > enScore {
		return RO
	}
	return EN
}

// Parse returns the Locale for a user-supplied language code, falling back
// to EN for anything unrecognized.
func Parse(code string) Locale {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case string(RO):
		return RO
	default:
		return EN
	}
}
