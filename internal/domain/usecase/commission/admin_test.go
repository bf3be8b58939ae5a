package commission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
	mockpersistence "github.com/ditlabs/tokensale-crm/mocks/port/persistence"
)

func newAdminFixture(t *testing.T) (*Admin, *mockpersistence.MockCommissionRepository, *mockpersistence.MockSettingsRepository) {
	t.Helper()

	commissionRepo := new(mockpersistence.MockCommissionRepository)
	settingsRepo := new(mockpersistence.MockSettingsRepository)
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	admin := NewAdmin(commissionRepo, settingsRepo,
		mockcore.FrozenTimeProvider(fixedTime), mockcore.RelaxedLogger())
	return admin, commissionRepo, settingsRepo
}

func TestAdmin_MarkPaid(t *testing.T) {
	t.Run("Marks an unpaid commission", func(t *testing.T) {
		admin, commissionRepo, _ := newAdminFixture(t)
		commission := &entity.ReferralCommission{ID: 1, ReferrerID: 3, AmountCents: 5000}

		commissionRepo.On("GetByID", mock.Anything, commission.ID).Return(commission, nil)
		commissionRepo.On("Update", mock.Anything, commission).Return(nil)

		result, err := admin.MarkPaid(context.Background(), commission.ID)
		require.NoError(t, err)

		assert.True(t, result.IsPaid)
		require.NotNil(t, result.PaidAt)
		assert.Equal(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), *result.PaidAt)
	})

	t.Run("Already paid is a no-op", func(t *testing.T) {
		admin, commissionRepo, _ := newAdminFixture(t)
		paidAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
		commission := &entity.ReferralCommission{ID: 1, IsPaid: true, PaidAt: &paidAt}

		commissionRepo.On("GetByID", mock.Anything, commission.ID).Return(commission, nil)

		result, err := admin.MarkPaid(context.Background(), commission.ID)
		require.NoError(t, err)

		assert.Equal(t, paidAt, *result.PaidAt)
		commissionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown commission", func(t *testing.T) {
		admin, commissionRepo, _ := newAdminFixture(t)
		commissionRepo.On("GetByID", mock.Anything, uint64(99)).Return(nil, errs.ErrCommissionNotFound)

		_, err := admin.MarkPaid(context.Background(), 99)
		assert.ErrorIs(t, err, errs.ErrCommissionNotFound)
	})
}

func TestAdmin_GetSettings(t *testing.T) {
	t.Run("Materializes the default when unconfigured", func(t *testing.T) {
		admin, _, settingsRepo := newAdminFixture(t)
		settingsRepo.On("GetCommissionSettings", mock.Anything).Return(nil, nil)

		settings, err := admin.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.DefaultReferralRateBasisPoints, settings.ReferralRateBasisPoints)
	})

	t.Run("Returns the stored row", func(t *testing.T) {
		admin, _, settingsRepo := newAdminFixture(t)
		stored := &entity.CommissionSettings{ID: 1, ReferralRateBasisPoints: 750}
		settingsRepo.On("GetCommissionSettings", mock.Anything).Return(stored, nil)

		settings, err := admin.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Same(t, stored, settings)
	})
}

func TestAdmin_UpdateRate(t *testing.T) {
	t.Run("Saves a valid rate", func(t *testing.T) {
		admin, _, settingsRepo := newAdminFixture(t)

		settingsRepo.On("GetCommissionSettings", mock.Anything).Return(nil, nil)

		var saved *entity.CommissionSettings
		settingsRepo.On("SaveCommissionSettings", mock.Anything, mock.AnythingOfType("*entity.CommissionSettings")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*entity.CommissionSettings)
			}).Return(nil)

		settings, err := admin.UpdateRate(context.Background(), 750)
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.Same(t, saved, settings)
		assert.Equal(t, int64(750), settings.ReferralRateBasisPoints)
		assert.Equal(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), settings.UpdatedAt)
	})

	t.Run("Rates outside (0, 100%] rejected", func(t *testing.T) {
		admin, _, settingsRepo := newAdminFixture(t)

		for _, rate := range []int64{0, -500, entity.RateDenominator + 1} {
			_, err := admin.UpdateRate(context.Background(), rate)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		}
		settingsRepo.AssertNotCalled(t, "SaveCommissionSettings", mock.Anything, mock.Anything)
	})
}
