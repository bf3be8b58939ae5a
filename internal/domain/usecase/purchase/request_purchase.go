package purchase

import (
	"context"
	"fmt"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// RequestPurchase creates a pending purchase at the current token price.
// The transaction stays PENDING until an admin confirms the payment arrived.
func (s *Service) RequestPurchase(ctx context.Context, userID uint64, amountCents int64) (*entity.Transaction, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
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
		newReference("PUR"),
		entity.TypePurchase,
		amountCents,
		tokenAmount,
		price.PriceCents,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, tx); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase request created", map[string]any{
		"user_id":        userID,
		"transaction_id": tx.ID,
		"amount":         tx.FormattedAmount(),
		"token_amount":   tx.FormattedTokenAmount(),
		"price":          price.FormattedPrice(),
	})

	s.notifyAdmins(ctx, "New token purchase awaiting confirmation",
		fmt.Sprintf("User %d requested %s DIT for %s USDT (reference %s).",
			userID, tx.FormattedTokenAmount(), tx.FormattedAmount(), tx.Reference))

	return tx, nil
}
