package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
	mockpersistence "github.com/ditlabs/tokensale-crm/mocks/port/persistence"
)

func newPricingFixture(t *testing.T) (*Service, *mockpersistence.MockTokenPriceRepository) {
	t.Helper()

	priceRepo := new(mockpersistence.MockTokenPriceRepository)
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service := NewService(priceRepo, mockcore.FrozenTimeProvider(fixedTime), mockcore.RelaxedLogger())
	return service, priceRepo
}

func TestService_CurrentPrice(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Today's price wins", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)
		todayPrice := &entity.TokenPrice{ID: 2, PriceCents: 55, EffectiveDate: today}

		priceRepo.On("GetForDay", mock.Anything, today).Return(todayPrice, nil)

		price, err := service.CurrentPrice(context.Background())
		require.NoError(t, err)
		assert.Same(t, todayPrice, price)
		priceRepo.AssertNotCalled(t, "GetLatest", mock.Anything)
	})

	t.Run("Falls back to the latest configured price", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)
		older := &entity.TokenPrice{ID: 1, PriceCents: 50, EffectiveDate: today.AddDate(0, 0, -3)}

		priceRepo.On("GetForDay", mock.Anything, today).Return(nil, errs.ErrPriceNotConfigured)
		priceRepo.On("GetLatest", mock.Anything).Return(older, nil)

		price, err := service.CurrentPrice(context.Background())
		require.NoError(t, err)
		assert.Same(t, older, price)
	})

	t.Run("No price configured at all", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)

		priceRepo.On("GetForDay", mock.Anything, today).Return(nil, errs.ErrPriceNotConfigured)
		priceRepo.On("GetLatest", mock.Anything).Return(nil, errs.ErrPriceNotConfigured)

		_, err := service.CurrentPrice(context.Background())
		assert.ErrorIs(t, err, errs.ErrPriceNotConfigured)
	})

	t.Run("Lookup failures are not masked by the fallback", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)
		dbErr := errors.New("connection reset")

		priceRepo.On("GetForDay", mock.Anything, today).Return(nil, dbErr)

		_, err := service.CurrentPrice(context.Background())
		assert.ErrorIs(t, err, dbErr)
		priceRepo.AssertNotCalled(t, "GetLatest", mock.Anything)
	})
}

func TestService_SetPrice(t *testing.T) {
	t.Run("Defaults to today", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)

		var upserted *entity.TokenPrice
		priceRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entity.TokenPrice")).
			Run(func(args mock.Arguments) {
				upserted = args.Get(1).(*entity.TokenPrice)
			}).Return(nil)

		price, err := service.SetPrice(context.Background(), 55, nil)
		require.NoError(t, err)

		require.NotNil(t, upserted)
		assert.Same(t, upserted, price)
		assert.Equal(t, int64(55), price.PriceCents)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), price.EffectiveDate)
	})

	t.Run("Explicit effective date is truncated to its day", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)
		priceRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		effective := time.Date(2026, 4, 1, 16, 45, 0, 0, time.UTC)
		price, err := service.SetPrice(context.Background(), 60, &effective)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), price.EffectiveDate)
	})

	t.Run("Non-positive price rejected", func(t *testing.T) {
		service, priceRepo := newPricingFixture(t)

		_, err := service.SetPrice(context.Background(), 0, nil)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		priceRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
