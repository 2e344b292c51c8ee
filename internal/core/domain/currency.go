package domain

import "strings"

// CurrencyCode is an ISO-4217-like three letter code. The set of valid codes is
// whatever the rate provider recognises.
type CurrencyCode = string

// NormalizeCode upper-cases and trims a currency code.
func NormalizeCode(code string) CurrencyCode {
	return strings.ToUpper(strings.TrimSpace(code))
}
