package purchase

import (
	"context"
	"fmt"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
)

// Confirmation actions accepted by ConfirmPayment
const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
)

// ConfirmPayment settles an admin's decision on a pending purchase.
//
// Confirm: the purchase transitions to COMPLETED and the buyer's tokens are
// credited, atomically. Commission settlement runs afterwards in its own
// transaction and can never undo the token credit.
//
// Reject: the purchase transitions to FAILED; no balances change and no
// commission is ever considered.
//
// A second call for the same transaction fails with ErrTransactionNotPending,
// so replays neither double-credit tokens nor duplicate commissions.
func (s *Service) ConfirmPayment(ctx context.Context, transactionID uint64, action, adminNotes string) (*entity.Transaction, error) {
	if action != ActionConfirm && action != ActionReject {
		return nil, fmt.Errorf("%w: action must be %q or %q", errs.ErrInvalidRequest, ActionConfirm, ActionReject)
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	purchase, buyer, err := s.decideInTx(txCtx, transactionID, action, adminNotes)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Pending purchase processed", map[string]any{
		"transaction_id": purchase.ID,
		"user_id":        purchase.UserID,
		"action":         action,
		"status":         purchase.Status,
	})

	if purchase.IsCompleted() {
		s.sendMail("purchase_confirmation", map[string]any{"user_id": buyer.ID}, func() error {
			return s.mailer.SendPurchaseConfirmation(ctx, buyer.Email, buyer.Name,
				purchase.FormattedAmount(), purchase.FormattedTokenAmount())
		})
		s.notifyAdmins(ctx, "Purchase confirmed",
			fmt.Sprintf("Purchase %s for user %s was confirmed (%s USDT).",
				purchase.Reference, buyer.Email, purchase.FormattedAmount()))

		// Purchase is committed; settlement failures queue a retry
		s.engine.SettleBestEffort(ctx, purchase)
	}

	return purchase, nil
}

// decideInTx applies the confirm/reject decision inside the transaction bound
// to ctx and returns the updated purchase together with its buyer.
func (s *Service) decideInTx(ctx context.Context, transactionID uint64, action, adminNotes string) (*entity.Transaction, *entity.User, error) {
	transactionRepo := s.uow.GetTransactionRepository(ctx)

	purchase, err := transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if purchase.Type != entity.TypePurchase {
		return nil, nil, fmt.Errorf("%w: transaction %d is not a purchase", errs.ErrInvalidRequest, transactionID)
	}

	userRepo := s.uow.GetUserRepository(ctx)
	buyer, err := userRepo.GetByID(ctx, purchase.UserID)
	if err != nil {
		return nil, nil, err
	}

	if action == ActionReject {
		if err := purchase.MarkFailed(s.timeProvider, adminNotes); err != nil {
			return nil, nil, err
		}
		if err := transactionRepo.Update(ctx, purchase); err != nil {
			return nil, nil, err
		}
		return purchase, buyer, nil
	}

	if err := purchase.MarkCompleted(s.timeProvider, adminNotes); err != nil {
		return nil, nil, err
	}
	if err := transactionRepo.Update(ctx, purchase); err != nil {
		return nil, nil, err
	}

	buyer.CreditTokens(purchase.TokenAmount, s.timeProvider)
	if err := userRepo.Update(ctx, buyer); err != nil {
		return nil, nil, err
	}

	notification := entity.NewNotification(
		buyer.ID,
		"Purchase confirmed",
		fmt.Sprintf("Your purchase of %s DIT was confirmed.", purchase.FormattedTokenAmount()),
		entity.NotificationPurchase,
		s.timeProvider,
	)
	if err := s.uow.GetNotificationRepository(ctx).Create(ctx, notification); err != nil {
		return nil, nil, err
	}

	return purchase, buyer, nil
}
