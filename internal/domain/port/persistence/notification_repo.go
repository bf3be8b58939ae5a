package persistence

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// NotificationRepository manages in-app notifications
type NotificationRepository interface {
	// Create inserts a notification
	Create(ctx context.Context, notification *entity.Notification) error

	// GetByID retrieves a notification by primary key
	//
	// Possible errors:
	// - ErrNotificationNotFound: If the notification doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Notification, error)

	// Update persists read-status changes
	Update(ctx context.Context, notification *entity.Notification) error

	// ListByUser returns the user's notifications, newest first
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Notification, error)
}
