package utils

import "strings"

// NormalizeEmail trims surrounding whitespace and lower-cases an email
// address. Every email that reaches a lookup or a stored record goes
// through this one function.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
