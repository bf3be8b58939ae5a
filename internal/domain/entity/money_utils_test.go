package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"1234567.89", 123456789},
			{"0.00", 0},
			{"0", 0},
			{"10.", 1000},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				units, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, units)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Empty string"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{"-1.00", errs.ErrNegativeAmount, "Negative amount"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"1,000.00", errs.ErrInvalidAmount, "Comma as thousands separator"},
			{"1.00.00", errs.ErrInvalidAmount, "Multiple decimal points"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.Error(t, err)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})

	t.Run("Edge cases", func(t *testing.T) {
		// Very large valid number
		units, err := ParseAmount("9999999999.99")
		assert.NoError(t, err)
		assert.Equal(t, int64(999999999999), units)

		// Zero with decimal
		units, err = ParseAmount("0.00")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), units)
	})
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		units    int64
		expected string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{10, "0.10"},
		{100, "1.00"},
		{150, "1.50"},
		{123456789, "1234567.89"},
		{0, "0.00"},
		{-150, "-1.50"},
		{-1, "-0.01"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.units))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{"0.00", "0.01", "1.00", "10.50", "1234567.89"}
	for _, input := range inputs {
		units, err := ParseAmount(input)
		assert.NoError(t, err)
		assert.Equal(t, input, FormatAmount(units))
	}
}

func TestApplyRate(t *testing.T) {
	testCases := []struct {
		name            string
		units           int64
		rateBasisPoints int64
		expected        int64
	}{
		{"5% of 1000.00", 100000, 500, 5000},
		{"5% of 100.00", 10000, 500, 500},
		{"5% of 0.20 truncates", 20, 500, 1},
		{"5% of 0.19 truncates to zero", 19, 500, 0},
		{"10% of 250.00", 25000, 1000, 2500},
		{"100% identity", 12345, 10000, 12345},
		{"zero rate", 100000, 0, 0},
		{"zero amount", 0, 500, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ApplyRate(tc.units, tc.rateBasisPoints))
		})
	}
}

func TestTokensForAmount(t *testing.T) {
	t.Run("Whole tokens", func(t *testing.T) {
		// 100.00 USDT at 0.50 per token buys 200.00 tokens
		tokens, err := TokensForAmount(10000, 50)
		assert.NoError(t, err)
		assert.Equal(t, int64(20000), tokens)
	})

	t.Run("Fractional result truncates", func(t *testing.T) {
		// 1.00 USDT at 0.30 per token: 3.333... tokens -> 3.33
		tokens, err := TokensForAmount(100, 30)
		assert.NoError(t, err)
		assert.Equal(t, int64(333), tokens)
	})

	t.Run("Price of 1.00 is identity", func(t *testing.T) {
		tokens, err := TokensForAmount(12345, 100)
		assert.NoError(t, err)
		assert.Equal(t, int64(12345), tokens)
	})

	t.Run("Non-positive price rejected", func(t *testing.T) {
		_, err := TokensForAmount(10000, 0)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = TokensForAmount(10000, -50)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}
