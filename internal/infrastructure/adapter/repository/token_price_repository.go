package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/model"
)

// TokenPriceRepository implements persistence.TokenPriceRepository using GORM
type TokenPriceRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewTokenPriceRepository creates a new TokenPriceRepository instance
func NewTokenPriceRepository(db *gorm.DB, logger coreport.Logger) *TokenPriceRepository {
	return &TokenPriceRepository{db: db, logger: logger}
}

func (r *TokenPriceRepository) modelToEntity(m *model.TokenPrice) *entity.TokenPrice {
	return &entity.TokenPrice{
		ID:            m.ID,
		PriceCents:    m.PriceCents,
		EffectiveDate: m.EffectiveDate,
		CreatedAt:     m.CreatedAt,
	}
}

// Upsert inserts or replaces the price for the row's effective day
func (r *TokenPriceRepository) Upsert(ctx context.Context, price *entity.TokenPrice) error {
	priceModel := model.TokenPrice{
		ID:            price.ID,
		PriceCents:    price.PriceCents,
		EffectiveDate: price.EffectiveDate,
		CreatedAt:     price.CreatedAt,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "effective_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_cents", "created_at"}),
	}).Create(&priceModel)
	if result.Error != nil {
		r.logger.Error("Failed to upsert token price", map[string]any{
			"effective_date": price.EffectiveDate,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	price.ID = priceModel.ID
	return nil
}

// GetForDay returns the price effective on the given day
func (r *TokenPriceRepository) GetForDay(ctx context.Context, day time.Time) (*entity.TokenPrice, error) {
	var priceModel model.TokenPrice
	result := r.db.WithContext(ctx).
		Where("effective_date = ?", entity.DayOf(day)).
		First(&priceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrPriceNotConfigured
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&priceModel), nil
}

// GetLatest returns the most recent price row by effective date
func (r *TokenPriceRepository) GetLatest(ctx context.Context) (*entity.TokenPrice, error) {
	var priceModel model.TokenPrice
	result := r.db.WithContext(ctx).
		Order("effective_date DESC").
		First(&priceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrPriceNotConfigured
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&priceModel), nil
}
