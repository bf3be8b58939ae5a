package migration

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/model"
)

// MigrationManager applies schema migrations in order and records which
// versions have run in the migration_versions table.
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// migrationStep is one named, idempotent schema change
type migrationStep struct {
	version string
	run     func(db *gorm.DB) error
}

// NewMigrationManager creates a new MigrationManager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// RunMigrations applies all pending migrations
func (m *MigrationManager) RunMigrations() error {
	if err := m.db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		return fmt.Errorf("failed to create migration version table: %w", err)
	}

	for _, step := range m.steps() {
		applied, err := m.isApplied(step.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		m.logger.Info("Applying migration", map[string]any{"version": step.version})

		if err := step.run(m.db); err != nil {
			m.logger.Error("Migration failed", map[string]any{
				"version": step.version,
				"error":   err.Error(),
			})
			return fmt.Errorf("migration %s failed: %w", step.version, err)
		}

		if err := m.recordApplied(step.version); err != nil {
			return err
		}
	}

	m.logger.Info("Database migrations up to date", nil)
	return nil
}

// steps returns all migrations in application order
func (m *MigrationManager) steps() []migrationStep {
	return []migrationStep{
		{
			version: "001_core_schema",
			run: func(db *gorm.DB) error {
				return db.AutoMigrate(
					&model.User{},
					&model.Transaction{},
					&model.ReferralCommission{},
					&model.CommissionSettings{},
					&model.WithdrawalRequest{},
					&model.Notification{},
					&model.TokenPrice{},
					&model.SettlementRetry{},
				)
			},
		},
		{
			version: "002_default_commission_settings",
			run:     m.seedCommissionSettings,
		},
	}
}

// isApplied reports whether a migration version has already run
func (m *MigrationManager) isApplied(version string) (bool, error) {
	var row model.MigrationVersion
	err := m.db.Where("version = ?", version).First(&row).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check migration version %s: %w", version, err)
}

// recordApplied writes the version row after a successful migration
func (m *MigrationManager) recordApplied(version string) error {
	row := model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
	}
	if err := m.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record migration version %s: %w", version, err)
	}
	return nil
}

// seedCommissionSettings inserts the default referral rate when no settings
// row exists yet
func (m *MigrationManager) seedCommissionSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.CommissionSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	settings := model.CommissionSettings{
		ReferralRateBasisPoints: entity.DefaultReferralRateBasisPoints,
		UpdatedAt:               m.timeProvider.Now(),
	}
	return db.Create(&settings).Error
}
