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

// NotificationRepository implements persistence.NotificationRepository using GORM
type NotificationRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewNotificationRepository creates a new NotificationRepository instance
func NewNotificationRepository(db *gorm.DB, logger coreport.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

func (r *NotificationRepository) modelToEntity(m *model.Notification) *entity.Notification {
	return &entity.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Message,
		Kind:      m.Kind,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	notificationModel := model.Notification{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Message:   notification.Message,
		Kind:      notification.Kind,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&notificationModel)
	if result.Error != nil {
		r.logger.Error("Failed to create notification", map[string]any{
			"user_id": notification.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	notification.ID = notificationModel.ID
	return nil
}

// GetByID retrieves a notification by primary key
func (r *NotificationRepository) GetByID(ctx context.Context, id uint64) (*entity.Notification, error) {
	var notificationModel model.Notification
	result := r.db.WithContext(ctx).First(&notificationModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&notificationModel), nil
}

// Update persists read-status changes
func (r *NotificationRepository) Update(ctx context.Context, notification *entity.Notification) error {
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", notification.ID).
		Updates(map[string]interface{}{
			"is_read": notification.IsRead,
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotificationNotFound
	}
	return nil
}

// ListByUser returns the user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []model.Notification
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	notifications := make([]*entity.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, r.modelToEntity(&models[i]))
	}
	return notifications, nil
}
