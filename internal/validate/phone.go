package validate

import (
	"regexp"
	"strings"
)

var (
	// Ethiopian mobile numbers as dialed locally: 09 followed by 8 digits.
	ethiopianMobileRe = regexp.MustCompile(`^09\d{8}$`)

	// E.164-shaped international number after normalization: "+" then 8-15 digits.
	internationalRe = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

	accountNumberRe = regexp.MustCompile(`^\d{10,16}$`)
)

// countryRule bounds the national-number digit length for one dial code.
type countryRule struct {
	dialCode string
	minLen   int
	maxLen   int
}

// Longest dial codes first so prefix matching picks the most specific entry.
var countryRules = []countryRule{
	{"251", 9, 9},  // Ethiopia
	{"254", 9, 9},  // Kenya
	{"255", 9, 9},  // Tanzania
	{"256", 9, 9},  // Uganda
	{"249", 9, 9},  // Sudan
	{"253", 8, 8},  // Djibouti
	{"234", 10, 10}, // Nigeria
	{"971", 8, 9},  // UAE
	{"966", 9, 9},  // Saudi Arabia
	{"974", 8, 8},  // Qatar
	{"27", 9, 9},   // South Africa
	{"20", 10, 10}, // Egypt
	{"44", 10, 10}, // UK
	{"49", 10, 11}, // Germany
	{"33", 9, 9},   // France
	{"91", 10, 10}, // India
	{"86", 11, 11}, // China
	{"1", 10, 10},  // US/Canada
}

// EthiopianMobile reports whether phone is a locally dialed Ethiopian
// mobile number, the shape required by the mobile-money rail.
func EthiopianMobile(phone string) bool {
	return ethiopianMobileRe.MatchString(strings.TrimSpace(phone))
}

// AccountNumber reports whether s is an acceptable bank account number
// for the bank-transfer rail.
func AccountNumber(s string) bool {
	return accountNumberRe.MatchString(strings.TrimSpace(s))
}

// NormalizeInternational strips formatting characters and rewrites the
// number into "+"-prefixed international form. Returns "" when the input
// cannot be normalized.
func NormalizeInternational(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// formatting noise
		default:
			return ""
		}
	}
	s := b.String()
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "00") {
		return "+" + s[2:]
	}
	if !strings.HasPrefix(s, "+") {
		return "+" + s
	}
	return s
}

// InternationalPhone reports whether phone normalizes to an E.164-shaped
// number that also satisfies the per-country digit-length bounds for any
// known dial code. Numbers with an unknown dial code pass on the E.164
// shape alone.
func InternationalPhone(phone string) bool {
	normalized := NormalizeInternational(phone)
	if normalized == "" || !internationalRe.MatchString(normalized) {
		return false
	}

	digits := normalized[1:]
	for _, rule := range countryRules {
		if strings.HasPrefix(digits, rule.dialCode) {
			national := len(digits) - len(rule.dialCode)
			return national >= rule.minLen && national <= rule.maxLen
		}
	}
	return true
}

// ContactPhone accepts either a locally dialed Ethiopian mobile number or
// a valid international number.
func ContactPhone(phone string) bool {
	return EthiopianMobile(phone) || InternationalPhone(phone)
}
