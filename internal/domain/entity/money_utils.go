package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
)

// Monetary values are stored as int64 cents and DIT token amounts as int64
// token-hundredths. Both use the same 2-decimal fixed-point representation,
// so the parsing and formatting helpers below are shared.

// MaxDecimalPlaces defines the maximum number of decimal places allowed for amounts
const MaxDecimalPlaces = 2

// RateDenominator is the divisor for basis-point commission rates (500 bp = 5%)
const RateDenominator = 10000

// ParseAmount validates and converts a decimal string into fixed-point units.
// Uses a string-based approach to avoid floating point precision issues:
// - "10"    -> 1000
// - "10.5"  -> 1050
// - "10.50" -> 1050
// Negative values and more than two decimal places are rejected.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var integerValue string

	if len(parts) == 1 {
		// No decimal point - add ".00"
		integerValue = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			// Like "10." - add "00"
			integerValue = parts[0] + "00"
		case 1:
			// One digit after decimal - pad with a zero
			integerValue = parts[0] + parts[1] + "0"
		case 2:
			integerValue = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(integerValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	return value, nil
}

// FormatAmount converts fixed-point units back to a decimal string.
// For example 1015 becomes "10.15" and 1000 becomes "10.00".
func FormatAmount(units int64) string {
	isNegative := units < 0
	if isNegative {
		units = -units
	}

	amountStr := strconv.FormatInt(units, 10)

	for len(amountStr) < 3 {
		amountStr = "0" + amountStr
	}

	decimalPos := len(amountStr) - 2
	wholePart := amountStr[:decimalPos]
	decimalPart := amountStr[decimalPos:]

	if wholePart == "" {
		wholePart = "0"
	}

	if isNegative {
		return "-" + wholePart + "." + decimalPart
	}
	return wholePart + "." + decimalPart
}

// ApplyRate applies a basis-point rate to a fixed-point amount using exact
// integer arithmetic. 100000 cents at 500 bp yields exactly 5000 cents.
func ApplyRate(units int64, rateBasisPoints int64) int64 {
	return units * rateBasisPoints / RateDenominator
}

// TokensForAmount converts a fiat amount to a token amount at the given price.
// Both inputs and the result are fixed-point units; the division truncates,
// matching how partial token hundredths are never credited.
func TokensForAmount(amountCents, pricePerTokenCents int64) (int64, error) {
	if pricePerTokenCents <= 0 {
		return 0, fmt.Errorf("%w: price per token must be positive", errs.ErrInvalidAmount)
	}
	// amountCents / priceCents tokens, scaled back to hundredths
	return amountCents * 100 / pricePerTokenCents, nil
}
