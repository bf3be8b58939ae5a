package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// Service is the single price-lookup point for every purchase path.
// Policy: today's configured price, falling back to the most recent one.
type Service struct {
	priceRepo    persistence.TokenPriceRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a pricing service
func NewService(
	priceRepo persistence.TokenPriceRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		priceRepo:    priceRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CurrentPrice returns the token price in effect right now.
//
// Possible errors:
// - ErrPriceNotConfigured: If no price row exists at all
func (s *Service) CurrentPrice(ctx context.Context) (*entity.TokenPrice, error) {
	today := entity.DayOf(s.timeProvider.Now())

	price, err := s.priceRepo.GetForDay(ctx, today)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, errs.ErrPriceNotConfigured) {
		return nil, err
	}

	price, err = s.priceRepo.GetLatest(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("No price for today, using latest configured price", map[string]any{
		"effective_date": price.EffectiveDate,
		"price":          price.FormattedPrice(),
	})
	return price, nil
}

// SetPrice upserts the price for the given day
func (s *Service) SetPrice(ctx context.Context, priceCents int64, effectiveDate *time.Time) (*entity.TokenPrice, error) {
	day := s.timeProvider.Now()
	if effectiveDate != nil {
		day = *effectiveDate
	}

	price, err := entity.NewTokenPrice(priceCents, day, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.priceRepo.Upsert(ctx, price); err != nil {
		return nil, err
	}

	s.logger.Info("Token price updated", map[string]any{
		"price":          price.FormattedPrice(),
		"effective_date": price.EffectiveDate,
	})
	return price, nil
}
