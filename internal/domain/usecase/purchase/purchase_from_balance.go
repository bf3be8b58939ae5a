package purchase

import (
	"context"
	"fmt"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
)

// PurchaseFromBalance converts internal USDT balance into tokens. The debit,
// token credit and COMPLETED transaction are one atomic write; commission
// settlement then runs best effort so a settlement failure can never block or
// undo the user's own purchase.
func (s *Service) PurchaseFromBalance(ctx context.Context, userID uint64, amountCents int64) (*entity.Transaction, error) {
	if amountCents <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	price, err := s.pricing.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	tokenAmount, err := entity.TokensForAmount(amountCents, price.PriceCents)
	if err != nil {
		return nil, err
	}

	tx, err := entity.NewTransaction(
		userID,
		newReference("BAL"),
		entity.TypePurchase,
		amountCents,
		tokenAmount,
		price.PriceCents,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.MarkCompleted(s.timeProvider, ""); err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.purchaseInTx(txCtx, tx); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Balance purchase completed", map[string]any{
		"user_id":        userID,
		"transaction_id": tx.ID,
		"amount":         tx.FormattedAmount(),
		"token_amount":   tx.FormattedTokenAmount(),
	})

	// Purchase is committed; settlement failures queue a retry
	s.engine.SettleBestEffort(ctx, tx)

	return tx, nil
}

// purchaseInTx debits the USDT balance, credits tokens and writes the ledger
// row inside the transaction bound to ctx
func (s *Service) purchaseInTx(ctx context.Context, tx *entity.Transaction) error {
	userRepo := s.uow.GetUserRepository(ctx)

	buyer, err := userRepo.GetByID(ctx, tx.UserID)
	if err != nil {
		return err
	}

	if err := buyer.DebitUsdt(tx.AmountCents, s.timeProvider); err != nil {
		return errs.NewInsufficientBalanceError(buyer.ID, tx.FormattedAmount(), buyer.FormattedUsdtBalance())
	}
	buyer.CreditTokens(tx.TokenAmount, s.timeProvider)

	if err := userRepo.Update(ctx, buyer); err != nil {
		return err
	}
	if err := s.uow.GetTransactionRepository(ctx).Create(ctx, tx); err != nil {
		return err
	}

	notification := entity.NewNotification(
		buyer.ID,
		"Purchase completed",
		fmt.Sprintf("You converted %s USDT from your balance into %s DIT.",
			tx.FormattedAmount(), tx.FormattedTokenAmount()),
		entity.NotificationPurchase,
		s.timeProvider,
	)
	return s.uow.GetNotificationRepository(ctx).Create(ctx, notification)
}
