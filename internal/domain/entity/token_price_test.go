package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
)

func TestDayOf(t *testing.T) {
	testCases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			"midday UTC",
			time.Date(2026, 3, 15, 13, 45, 30, 0, time.UTC),
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"already midnight",
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"non-UTC zone converts first",
			time.Date(2026, 3, 15, 23, 30, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"zone offset crosses a day boundary",
			time.Date(2026, 3, 15, 1, 30, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DayOf(tc.input))
		})
	}
}

func TestNewTokenPrice(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	t.Run("Valid price truncates effective date", func(t *testing.T) {
		price, err := NewTokenPrice(50, time.Date(2026, 3, 20, 17, 30, 0, 0, time.UTC), mockTime)

		require.NoError(t, err)
		assert.Equal(t, int64(50), price.PriceCents)
		assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), price.EffectiveDate)
		assert.Equal(t, "0.50", price.FormattedPrice())
	})

	t.Run("Non-positive price rejected", func(t *testing.T) {
		_, err := NewTokenPrice(0, fixedTime, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = NewTokenPrice(-50, fixedTime, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}
