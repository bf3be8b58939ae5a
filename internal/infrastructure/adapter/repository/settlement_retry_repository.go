package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/model"
)

// SettlementRetryRepository implements persistence.SettlementRetryRepository
// using GORM
type SettlementRetryRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewSettlementRetryRepository creates a new SettlementRetryRepository instance
func NewSettlementRetryRepository(db *gorm.DB, logger coreport.Logger) *SettlementRetryRepository {
	return &SettlementRetryRepository{db: db, logger: logger}
}

func (r *SettlementRetryRepository) modelToEntity(m *model.SettlementRetry) *entity.SettlementRetry {
	return &entity.SettlementRetry{
		ID:                    m.ID,
		PurchaseTransactionID: m.PurchaseTransactionID,
		Attempts:              m.Attempts,
		LastError:             m.LastError,
		ResolvedAt:            m.ResolvedAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// Enqueue inserts a retry row, or bumps the attempt counter when one already
// exists for the same purchase transaction
func (r *SettlementRetryRepository) Enqueue(ctx context.Context, retry *entity.SettlementRetry) error {
	retryModel := model.SettlementRetry{
		PurchaseTransactionID: retry.PurchaseTransactionID,
		Attempts:              retry.Attempts,
		LastError:             retry.LastError,
		CreatedAt:             retry.CreatedAt,
		UpdatedAt:             retry.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "purchase_transaction_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempts":   gorm.Expr("settlement_retries.attempts + 1"),
			"last_error": retry.LastError,
			"updated_at": retry.UpdatedAt,
		}),
	}).Create(&retryModel)
	if result.Error != nil {
		r.logger.Error("Failed to enqueue settlement retry", map[string]any{
			"purchase_transaction_id": retry.PurchaseTransactionID,
			"error":                   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	retry.ID = retryModel.ID
	return nil
}

// ListUnresolved returns queue entries that have not settled yet
func (r *SettlementRetryRepository) ListUnresolved(ctx context.Context, limit int) ([]*entity.SettlementRetry, error) {
	query := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []model.SettlementRetry
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	retries := make([]*entity.SettlementRetry, 0, len(models))
	for i := range models {
		retries = append(retries, r.modelToEntity(&models[i]))
	}
	return retries, nil
}

// Update persists attempt counts and resolution
func (r *SettlementRetryRepository) Update(ctx context.Context, retry *entity.SettlementRetry) error {
	result := r.db.WithContext(ctx).Model(&model.SettlementRetry{}).
		Where("id = ?", retry.ID).
		Updates(map[string]interface{}{
			"attempts":    retry.Attempts,
			"last_error":  retry.LastError,
			"resolved_at": retry.ResolvedAt,
			"updated_at":  retry.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
