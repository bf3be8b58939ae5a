package purchase

import (
	"context"
	"fmt"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// ManualDeposit records a USDT payment an admin verified on-chain. The
// purchase is created directly in COMPLETED status, tokens are credited in
// the same transaction, and commission settlement runs afterwards.
func (s *Service) ManualDeposit(ctx context.Context, userEmail string, usdtAmountCents int64, txHash, fromWallet string) (*entity.Transaction, error) {
	buyer, err := s.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	price, err := s.pricing.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	tokenAmount, err := entity.TokensForAmount(usdtAmountCents, price.PriceCents)
	if err != nil {
		return nil, err
	}

	deposit, err := entity.NewTransaction(
		buyer.ID,
		newReference("DEP"),
		entity.TypePurchase,
		usdtAmountCents,
		tokenAmount,
		price.PriceCents,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	deposit.TxHash = txHash
	deposit.FromWallet = fromWallet
	if err := deposit.MarkCompleted(s.timeProvider, ""); err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.recordDepositInTx(txCtx, deposit, buyer.ID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Manual deposit recorded", map[string]any{
		"user_id":        buyer.ID,
		"transaction_id": deposit.ID,
		"amount":         deposit.FormattedAmount(),
		"token_amount":   deposit.FormattedTokenAmount(),
		"tx_hash":        txHash,
	})

	s.sendMail("deposit_recorded", map[string]any{"user_id": buyer.ID}, func() error {
		return s.mailer.SendDepositRecorded(ctx, buyer.Email, buyer.Name, deposit.FormattedAmount(), txHash)
	})
	s.notifyAdmins(ctx, "Manual deposit recorded",
		fmt.Sprintf("Deposit of %s USDT recorded for %s (tx hash %s).",
			deposit.FormattedAmount(), buyer.Email, txHash))

	// Deposit is committed; settlement failures queue a retry
	s.engine.SettleBestEffort(ctx, deposit)

	return deposit, nil
}

// recordDepositInTx writes the completed deposit, token credit and
// notification inside the transaction bound to ctx
func (s *Service) recordDepositInTx(ctx context.Context, deposit *entity.Transaction, buyerID uint64) error {
	if err := s.uow.GetTransactionRepository(ctx).Create(ctx, deposit); err != nil {
		return err
	}

	userRepo := s.uow.GetUserRepository(ctx)
	buyer, err := userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return err
	}
	buyer.CreditTokens(deposit.TokenAmount, s.timeProvider)
	if err := userRepo.Update(ctx, buyer); err != nil {
		return err
	}

	notification := entity.NewNotification(
		buyer.ID,
		"Deposit recorded",
		fmt.Sprintf("A deposit of %s USDT was recorded and %s DIT credited to your account.",
			deposit.FormattedAmount(), deposit.FormattedTokenAmount()),
		entity.NotificationPurchase,
		s.timeProvider,
	)
	return s.uow.GetNotificationRepository(ctx).Create(ctx, notification)
}
