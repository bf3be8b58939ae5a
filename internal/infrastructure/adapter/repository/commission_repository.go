package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/model"
)

// CommissionRepository implements persistence.CommissionRepository using GORM
type CommissionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCommissionRepository creates a new CommissionRepository instance
func NewCommissionRepository(db *gorm.DB, logger coreport.Logger) *CommissionRepository {
	return &CommissionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *CommissionRepository) entityToModel(commission *entity.ReferralCommission) model.ReferralCommission {
	return model.ReferralCommission{
		ID:                    commission.ID,
		ReferrerID:            commission.ReferrerID,
		ReferredUserID:        commission.ReferredUserID,
		PurchaseTransactionID: commission.PurchaseTransactionID,
		AmountCents:           commission.AmountCents,
		TokenAmount:           commission.TokenAmount,
		PricePerTokenCents:    commission.PricePerTokenCents,
		Month:                 commission.Month,
		Year:                  commission.Year,
		IsPaid:                commission.IsPaid,
		PaidAt:                commission.PaidAt,
		CreatedAt:             commission.CreatedAt,
	}
}

func (r *CommissionRepository) modelToEntity(m *model.ReferralCommission) *entity.ReferralCommission {
	return &entity.ReferralCommission{
		ID:                    m.ID,
		ReferrerID:            m.ReferrerID,
		ReferredUserID:        m.ReferredUserID,
		PurchaseTransactionID: m.PurchaseTransactionID,
		AmountCents:           m.AmountCents,
		TokenAmount:           m.TokenAmount,
		PricePerTokenCents:    m.PricePerTokenCents,
		Month:                 m.Month,
		Year:                  m.Year,
		IsPaid:                m.IsPaid,
		PaidAt:                m.PaidAt,
		CreatedAt:             m.CreatedAt,
	}
}

// Create inserts a commission row. A duplicate on the (referrer, referred
// user) unique index comes back as ErrDuplicateCommission; settlement treats
// it as the idempotency signal, not a failure.
func (r *CommissionRepository) Create(ctx context.Context, commission *entity.ReferralCommission) error {
	commissionModel := r.entityToModel(commission)

	result := r.db.WithContext(ctx).Create(&commissionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateCommission
		}
		r.logger.Error("Failed to create commission", map[string]any{
			"referrer_id":      commission.ReferrerID,
			"referred_user_id": commission.ReferredUserID,
			"error":            result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	commission.ID = commissionModel.ID
	return nil
}

// ExistsForPair reports whether a commission already exists for the pair
func (r *CommissionRepository) ExistsForPair(ctx context.Context, referrerID, referredUserID uint64) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.ReferralCommission{}).
		Where("referrer_id = ? AND referred_user_id = ?", referrerID, referredUserID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count > 0, nil
}

// GetByID retrieves a commission by primary key
func (r *CommissionRepository) GetByID(ctx context.Context, id uint64) (*entity.ReferralCommission, error) {
	var commissionModel model.ReferralCommission
	result := r.db.WithContext(ctx).First(&commissionModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCommissionNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&commissionModel), nil
}

// Update persists paid-status changes
func (r *CommissionRepository) Update(ctx context.Context, commission *entity.ReferralCommission) error {
	result := r.db.WithContext(ctx).Model(&model.ReferralCommission{}).
		Where("id = ?", commission.ID).
		Updates(map[string]interface{}{
			"is_paid": commission.IsPaid,
			"paid_at": commission.PaidAt,
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrCommissionNotFound
	}
	return nil
}

// ListByReferrer returns commissions earned by the given referrer
func (r *CommissionRepository) ListByReferrer(ctx context.Context, referrerID uint64) ([]*entity.ReferralCommission, error) {
	var models []model.ReferralCommission
	result := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	commissions := make([]*entity.ReferralCommission, 0, len(models))
	for i := range models {
		commissions = append(commissions, r.modelToEntity(&models[i]))
	}
	return commissions, nil
}

// ListAll returns all commissions, newest first
func (r *CommissionRepository) ListAll(ctx context.Context, limit int) ([]*entity.ReferralCommission, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []model.ReferralCommission
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	commissions := make([]*entity.ReferralCommission, 0, len(models))
	for i := range models {
		commissions = append(commissions, r.modelToEntity(&models[i]))
	}
	return commissions, nil
}

// SettingsRepository implements persistence.SettingsRepository using GORM
type SettingsRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewSettingsRepository creates a new SettingsRepository instance
func NewSettingsRepository(db *gorm.DB, logger coreport.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

// GetCommissionSettings returns the settings row, or nil when none exists
func (r *SettingsRepository) GetCommissionSettings(ctx context.Context) (*entity.CommissionSettings, error) {
	var settingsModel model.CommissionSettings
	result := r.db.WithContext(ctx).First(&settingsModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return &entity.CommissionSettings{
		ID:                      settingsModel.ID,
		ReferralRateBasisPoints: settingsModel.ReferralRateBasisPoints,
		UpdatedAt:               settingsModel.UpdatedAt,
	}, nil
}

// SaveCommissionSettings upserts the single settings row
func (r *SettingsRepository) SaveCommissionSettings(ctx context.Context, settings *entity.CommissionSettings) error {
	settingsModel := model.CommissionSettings{
		ID:                      settings.ID,
		ReferralRateBasisPoints: settings.ReferralRateBasisPoints,
		UpdatedAt:               settings.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Save(&settingsModel)
	if result.Error != nil {
		r.logger.Error("Failed to save commission settings", map[string]any{
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	settings.ID = settingsModel.ID
	return nil
}
