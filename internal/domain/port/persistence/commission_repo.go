package persistence

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// CommissionRepository manages referral commission rows
type CommissionRepository interface {
	// Create inserts a commission row. The (referrer_id, referred_user_id)
	// pair carries a unique index; inserting a duplicate returns
	// ErrDuplicateCommission, which settlement treats as the idempotency
	// signal rather than a failure.
	Create(ctx context.Context, commission *entity.ReferralCommission) error

	// ExistsForPair reports whether a commission already exists for the
	// (referrer, referred user) pair
	ExistsForPair(ctx context.Context, referrerID, referredUserID uint64) (bool, error)

	// GetByID retrieves a commission by primary key
	//
	// Possible errors:
	// - ErrCommissionNotFound: If the commission doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.ReferralCommission, error)

	// Update persists paid-status changes
	Update(ctx context.Context, commission *entity.ReferralCommission) error

	// ListByReferrer returns commissions earned by the given referrer
	ListByReferrer(ctx context.Context, referrerID uint64) ([]*entity.ReferralCommission, error)

	// ListAll returns all commissions, newest first
	ListAll(ctx context.Context, limit int) ([]*entity.ReferralCommission, error)
}

// SettingsRepository reads and writes the platform commission settings
type SettingsRepository interface {
	// GetCommissionSettings returns the settings row, or nil when none has
	// been configured yet (callers fall back to the default rate)
	GetCommissionSettings(ctx context.Context) (*entity.CommissionSettings, error)

	// SaveCommissionSettings upserts the single settings row
	SaveCommissionSettings(ctx context.Context, settings *entity.CommissionSettings) error
}
