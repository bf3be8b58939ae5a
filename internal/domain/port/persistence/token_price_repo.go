package persistence

import (
	"context"
	"time"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// TokenPriceRepository manages per-day token price rows
type TokenPriceRepository interface {
	// Upsert inserts or replaces the price for the row's effective day
	Upsert(ctx context.Context, price *entity.TokenPrice) error

	// GetForDay returns the price effective on the given day
	//
	// Possible errors:
	// - ErrPriceNotConfigured: If no row exists for that day
	GetForDay(ctx context.Context, day time.Time) (*entity.TokenPrice, error)

	// GetLatest returns the most recent price row by effective date
	//
	// Possible errors:
	// - ErrPriceNotConfigured: If no price has ever been configured
	GetLatest(ctx context.Context) (*entity.TokenPrice, error)
}
