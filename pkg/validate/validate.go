// Package validate holds format checks for Zimbabwean phone numbers,
// meter numbers and other payment identifiers used across the storefront.
package validate

import (
	"regexp"
	"strings"
)

var (
	econetPattern       = regexp.MustCompile(`^(077|078)\d{7}$`)
	netOnePattern       = regexp.MustCompile(`^071\d{7}$`)
	zimMobilePattern    = regexp.MustCompile(`^(077|078|071)\d{7}$`)
	meterPattern        = regexp.MustCompile(`^\d{11}$`)
	telOnePattern       = regexp.MustCompile(`^\d{6,12}$`)
	policyPattern       = regexp.MustCompile(`^[A-Z]{2}\d{8}$`)
	nonDigitPattern     = regexp.MustCompile(`\D`)
	phoneDisplayPattern = regexp.MustCompile(`^(\d{3})(\d{3})(\d{4})`)
)

func strip(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// EconetNumber checks an Econet mobile number (prefix 077 or 078 plus 7 digits).
func EconetNumber(number string) bool {
	return econetPattern.MatchString(strip(number))
}

// NetOneNumber checks a NetOne mobile number (prefix 071 plus 7 digits).
func NetOneNumber(number string) bool {
	return netOnePattern.MatchString(strip(number))
}

// ZimMobileNumber accepts either major network prefix.
func ZimMobileNumber(number string) bool {
	return zimMobilePattern.MatchString(strip(number))
}

// MeterNumber checks a ZESA electricity meter number (11 digits).
func MeterNumber(number string) bool {
	return meterPattern.MatchString(strip(number))
}

// TelOneAccount checks a TelOne account number (6 to 12 digits).
func TelOneAccount(number string) bool {
	return telOnePattern.MatchString(strip(number))
}

// PolicyNumber checks a Nyaradzo policy number (two uppercase letters
// followed by 8 digits, e.g. NY12345678).
func PolicyNumber(number string) bool {
	return policyPattern.MatchString(strip(number))
}

// FormatPhoneNumber renders 0771234567 as "077 123 4567" for display.
// Numbers too short to format are returned with non-digits removed.
func FormatPhoneNumber(number string) string {
	cleaned := nonDigitPattern.ReplaceAllString(number, "")
	if len(cleaned) < 10 {
		return cleaned
	}
	return phoneDisplayPattern.ReplaceAllString(cleaned, "$1 $2 $3")
}
