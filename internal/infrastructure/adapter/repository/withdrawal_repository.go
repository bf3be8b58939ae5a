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

// WithdrawalRepository implements persistence.WithdrawalRepository using GORM
type WithdrawalRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewWithdrawalRepository creates a new WithdrawalRepository instance
func NewWithdrawalRepository(db *gorm.DB, logger coreport.Logger) *WithdrawalRepository {
	return &WithdrawalRepository{db: db, logger: logger}
}

func (r *WithdrawalRepository) entityToModel(request *entity.WithdrawalRequest) model.WithdrawalRequest {
	return model.WithdrawalRequest{
		ID:            request.ID,
		UserID:        request.UserID,
		TransactionID: request.TransactionID,
		TokenAmount:   request.TokenAmount,
		AmountCents:   request.AmountCents,
		WalletAddress: request.WalletAddress,
		LockUntil:     request.LockUntil,
		Status:        string(request.Status),
		AdminNotes:    request.AdminNotes,
		ProcessedAt:   request.ProcessedAt,
		CreatedAt:     request.CreatedAt,
	}
}

func (r *WithdrawalRepository) modelToEntity(m *model.WithdrawalRequest) *entity.WithdrawalRequest {
	return &entity.WithdrawalRequest{
		ID:            m.ID,
		UserID:        m.UserID,
		TransactionID: m.TransactionID,
		TokenAmount:   m.TokenAmount,
		AmountCents:   m.AmountCents,
		WalletAddress: m.WalletAddress,
		LockUntil:     m.LockUntil,
		Status:        entity.WithdrawalStatus(m.Status),
		AdminNotes:    m.AdminNotes,
		ProcessedAt:   m.ProcessedAt,
		CreatedAt:     m.CreatedAt,
	}
}

// Create inserts a pending withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, request *entity.WithdrawalRequest) error {
	requestModel := r.entityToModel(request)

	result := r.db.WithContext(ctx).Create(&requestModel)
	if result.Error != nil {
		r.logger.Error("Failed to create withdrawal request", map[string]any{
			"user_id": request.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	request.ID = requestModel.ID
	return nil
}

// GetByID retrieves a withdrawal request by primary key
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error) {
	var requestModel model.WithdrawalRequest
	result := r.db.WithContext(ctx).First(&requestModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&requestModel), nil
}

// Update persists status and processing changes
func (r *WithdrawalRepository) Update(ctx context.Context, request *entity.WithdrawalRequest) error {
	result := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"status":       string(request.Status),
			"admin_notes":  request.AdminNotes,
			"processed_at": request.ProcessedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrWithdrawalNotFound
	}
	return nil
}

// ListByUser returns the user's withdrawal requests, newest first
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error) {
	var models []model.WithdrawalRequest
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	requests := make([]*entity.WithdrawalRequest, 0, len(models))
	for i := range models {
		requests = append(requests, r.modelToEntity(&models[i]))
	}
	return requests, nil
}

// ListPending returns all withdrawal requests awaiting an admin decision
func (r *WithdrawalRepository) ListPending(ctx context.Context) ([]*entity.WithdrawalRequest, error) {
	var models []model.WithdrawalRequest
	result := r.db.WithContext(ctx).
		Where("status = ?", string(entity.WithdrawalPending)).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	requests := make([]*entity.WithdrawalRequest, 0, len(models))
	for i := range models {
		requests = append(requests, r.modelToEntity(&models[i]))
	}
	return requests, nil
}
