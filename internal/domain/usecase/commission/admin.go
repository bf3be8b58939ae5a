package commission

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// Admin exposes the back-office side of commissions: browsing what was
// settled, marking payouts done and tuning the platform rate.
type Admin struct {
	commissionRepo persistence.CommissionRepository
	settingsRepo   persistence.SettingsRepository
	timeProvider   coreport.TimeProvider
	logger         coreport.Logger
}

// NewAdmin creates the admin commission service
func NewAdmin(
	commissionRepo persistence.CommissionRepository,
	settingsRepo persistence.SettingsRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Admin {
	return &Admin{
		commissionRepo: commissionRepo,
		settingsRepo:   settingsRepo,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// ListCommissions returns settled commissions, newest first
func (a *Admin) ListCommissions(ctx context.Context, limit int) ([]*entity.ReferralCommission, error) {
	return a.commissionRepo.ListAll(ctx, limit)
}

// MarkPaid flags a commission payout as done. Marking an already paid
// commission is a no-op.
func (a *Admin) MarkPaid(ctx context.Context, commissionID uint64) (*entity.ReferralCommission, error) {
	commission, err := a.commissionRepo.GetByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.IsPaid {
		return commission, nil
	}

	commission.MarkPaid(a.timeProvider)
	if err := a.commissionRepo.Update(ctx, commission); err != nil {
		return nil, err
	}

	a.logger.Info("Commission marked paid", map[string]any{
		"commission_id": commission.ID,
		"referrer_id":   commission.ReferrerID,
		"amount":        commission.FormattedAmount(),
	})

	return commission, nil
}

// GetSettings returns the configured rate, materializing the default when no
// settings row exists yet.
func (a *Admin) GetSettings(ctx context.Context) (*entity.CommissionSettings, error) {
	settings, err := a.settingsRepo.GetCommissionSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.CommissionSettings{ReferralRateBasisPoints: entity.DefaultReferralRateBasisPoints}
	}
	return settings, nil
}

// UpdateRate changes the platform referral rate. The new rate applies to
// future settlements only; existing commission rows keep the rate they were
// computed with.
func (a *Admin) UpdateRate(ctx context.Context, rateBasisPoints int64) (*entity.CommissionSettings, error) {
	if rateBasisPoints <= 0 || rateBasisPoints > entity.RateDenominator {
		return nil, errs.ErrInvalidAmount
	}

	settings, err := a.settingsRepo.GetCommissionSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.CommissionSettings{}
	}
	settings.ReferralRateBasisPoints = rateBasisPoints
	settings.UpdatedAt = a.timeProvider.Now()

	if err := a.settingsRepo.SaveCommissionSettings(ctx, settings); err != nil {
		return nil, err
	}

	a.logger.Info("Referral rate updated", map[string]any{
		"rate_basis_points": rateBasisPoints,
	})

	return settings, nil
}
