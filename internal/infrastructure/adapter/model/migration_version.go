package model

import (
	"time"
)

// MigrationVersion tracks which schema migrations have been applied
type MigrationVersion struct {
	ID        uint64    `gorm:"primaryKey"`
	Version   string    `gorm:"size:64;not null;uniqueIndex"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for MigrationVersion
func (MigrationVersion) TableName() string {
	return "migration_versions"
}
