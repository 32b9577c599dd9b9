package product

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// parseAmount parses an Indonesian formatted number.
// Format examples: "Rp 15.000" -> 15000, "15.000,50" -> 15000.50, "2500" -> 2500.
// A lone dot is read as a decimal point unless it groups thousands ("1.5" -> 1.5).
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "Rp"), "rp")
	clean = strings.TrimPrefix(clean, ".")
	clean = strings.ReplaceAll(clean, " ", "")

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case thousandsOnly.MatchString(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}

	return d, nil
}

// parseCount parses a whole number such as a stock level ("1.200" -> 1200).
func parseCount(s string) (int, error) {
	d, err := parseAmount(s)
	if err != nil {
		return 0, err
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}

	return int(d.IntPart()), nil
}
