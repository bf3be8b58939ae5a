package user

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
)

// recentTransactionLimit bounds the dashboard's transaction list
const recentTransactionLimit = 20

// Dashboard aggregates everything the user landing page shows
type Dashboard struct {
	User               *entity.User
	RecentTransactions []*entity.Transaction
}

// ReferralOverview aggregates the referral page: who the user invited and
// what commissions they earned for it
type ReferralOverview struct {
	ReferralCode  string
	ReferredUsers []*entity.User
	Commissions   []*entity.ReferralCommission
}

// GetDashboard returns the user's balances and recent ledger activity
func (s *Service) GetDashboard(ctx context.Context, userID uint64) (*Dashboard, error) {
	account, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByUser(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User:               account,
		RecentTransactions: transactions,
	}, nil
}

// GetReferralOverview returns the user's referral code, invited users and
// earned commissions
func (s *Service) GetReferralOverview(ctx context.Context, userID uint64) (*ReferralOverview, error) {
	account, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	referred, err := s.userRepo.ListReferredBy(ctx, account.ReferralCode)
	if err != nil {
		return nil, err
	}

	commissions, err := s.commissionRepo.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReferralOverview{
		ReferralCode:  account.ReferralCode,
		ReferredUsers: referred,
		Commissions:   commissions,
	}, nil
}

// ListTransactions returns the user's ledger history, newest first
func (s *Service) ListTransactions(ctx context.Context, userID uint64, limit int) ([]*entity.Transaction, error) {
	return s.transactionRepo.ListByUser(ctx, userID, limit)
}

// ListNotifications returns the user's notification center entries
func (s *Service) ListNotifications(ctx context.Context, userID uint64, limit int) ([]*entity.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, limit)
}

// MarkNotificationRead flags one of the user's notifications as read.
// A notification belonging to another user is reported as not found.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID uint64) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return errs.ErrNotificationNotFound
	}

	if notification.IsRead {
		return nil
	}
	notification.MarkRead()
	return s.notificationRepo.Update(ctx, notification)
}
