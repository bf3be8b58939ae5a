package entity

import (
	"time"

	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// Notification kinds
const (
	NotificationCommission = "commission"
	NotificationPurchase   = "purchase"
	NotificationWithdrawal = "withdrawal"
	NotificationGeneral    = "general"
)

// Notification is an in-app message shown in the user's notification center
type Notification struct {
	ID        uint64
	UserID    uint64
	Title     string
	Message   string
	Kind      string
	IsRead    bool
	CreatedAt time.Time
}

// NewNotification creates an unread notification
func NewNotification(userID uint64, title, message, kind string, timeProvider coreport.TimeProvider) *Notification {
	if kind == "" {
		kind = NotificationGeneral
	}
	return &Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: timeProvider.Now(),
	}
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	n.IsRead = true
}
