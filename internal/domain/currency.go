package domain

import "regexp"

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency reports whether code looks like an ISO 4217 alphabetic code.
func ValidateCurrency(code string) bool {
	return currencyRe.MatchString(code)
}

// ValidatePair checks both codes and disallows identical from/to.
func ValidatePair(from, to string) bool {
	return ValidateCurrency(from) && ValidateCurrency(to) && from != to
}
