package validator

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FilterAll is the sentinel value that disables a search filter.
const FilterAll = "all"

// IsUnfiltered reports whether a filter token means "no filter".
func IsUnfiltered(token string) bool {
	token = strings.TrimSpace(token)
	return token == "" || token == FilterAll
}

// ParsePriceFilter reads a "lo-hi" token into an inclusive range.
func ParsePriceFilter(token string) (decimal.Decimal, decimal.Decimal, error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) != 2 {
		return decimal.Zero, decimal.Zero, newValidationError("price", "Price filter must look like min-max")
	}

	lo, errLo := decimal.NewFromString(strings.TrimSpace(parts[0]))
	hi, errHi := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if errLo != nil || errHi != nil {
		return decimal.Zero, decimal.Zero, newValidationError("price", "Price filter must look like min-max")
	}
	if lo.GreaterThan(hi) {
		return decimal.Zero, decimal.Zero, newValidationError("price", "Price filter minimum exceeds maximum")
	}
	return lo, hi, nil
}

// ParseRatingFilter reads the minimum rating token.
func ParseRatingFilter(token string) (float64, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil || rating < 0 || rating > 5 {
		return 0, newValidationError("rating", "Rating filter must be a number between 0 and 5")
	}
	return rating, nil
}
