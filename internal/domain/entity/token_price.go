package entity

import (
	"time"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// TokenPrice is the DIT token price for one calendar day.
// Lookups take today's row, falling back to the most recent one.
type TokenPrice struct {
	ID            uint64
	PriceCents    int64
	EffectiveDate time.Time // Truncated to midnight UTC
	CreatedAt     time.Time
}

// NewTokenPrice creates a price row effective on the given day
func NewTokenPrice(priceCents int64, effectiveDate time.Time, timeProvider coreport.TimeProvider) (*TokenPrice, error) {
	if priceCents <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	return &TokenPrice{
		PriceCents:    priceCents,
		EffectiveDate: DayOf(effectiveDate),
		CreatedAt:     timeProvider.Now(),
	}, nil
}

// FormattedPrice returns the price as a 2-decimal string
func (p *TokenPrice) FormattedPrice() string {
	return FormatAmount(p.PriceCents)
}

// DayOf truncates a timestamp to its UTC calendar day
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
