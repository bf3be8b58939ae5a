package model

import (
	"time"
)

// Notification represents the database model for in-app notifications
type Notification struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index"`
	Title     string    `gorm:"size:255;not null"`
	Message   string    `gorm:"type:text;not null"`
	Kind      string    `gorm:"size:32;not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
