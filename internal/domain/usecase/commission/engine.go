package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// Engine settles referral commissions for confirmed first purchases.
// All three purchase entry points (admin confirmation, manual deposit,
// balance purchase) call the same engine, so first-purchase detection, rate
// lookup and idempotency live in exactly one place.
//
// Settlement always runs in its own database transaction, after the
// purchase's own effects have committed. A settlement failure never rolls
// back the purchase; it is queued for replay instead.
type Engine struct {
	uow          persistence.UnitOfWork
	retryRepo    persistence.SettlementRetryRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewEngine creates a settlement engine
func NewEngine(
	uow persistence.UnitOfWork,
	retryRepo persistence.SettlementRetryRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Engine {
	return &Engine{
		uow:          uow,
		retryRepo:    retryRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Settle credits the referrer of the purchase's user if and only if this is
// the user's first completed purchase. The whole settlement is one database
// transaction. It is idempotent: replays and duplicate deliveries end in a
// no-op, guaranteed by the unique (referrer, referred user) index.
//
// Returns nil both on successful settlement and on every no-op precondition
// (no referrer, not the first purchase, commission already exists).
func (e *Engine) Settle(ctx context.Context, purchase *entity.Transaction) error {
	if purchase == nil || purchase.Type != entity.TypePurchase || !purchase.IsCompleted() {
		return fmt.Errorf("%w: settlement requires a completed purchase", errs.ErrInvalidRequest)
	}

	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return errs.NewSettlementError(purchase.ID, purchase.UserID, 0, "begin transaction", err)
	}

	settled, err := e.settleInTx(txCtx, purchase)
	if err != nil {
		_ = e.uow.Rollback(txCtx)
		return err
	}
	if !settled {
		// Nothing written; release the transaction without committing
		_ = e.uow.Rollback(txCtx)
		return nil
	}

	if err := e.uow.Commit(txCtx); err != nil {
		return errs.NewSettlementError(purchase.ID, purchase.UserID, 0, "commit settlement", err)
	}

	return nil
}

// settleInTx runs the precondition checks and writes inside the transaction
// bound to ctx. Returns (false, nil) when settlement is a legitimate no-op.
func (e *Engine) settleInTx(ctx context.Context, purchase *entity.Transaction) (bool, error) {
	userRepo := e.uow.GetUserRepository(ctx)

	buyer, err := userRepo.GetByID(ctx, purchase.UserID)
	if err != nil {
		return false, errs.NewSettlementError(purchase.ID, purchase.UserID, 0, "load buyer", err)
	}

	// Precondition 1: the buyer signed up with a referral code
	if !buyer.WasReferred() {
		return false, nil
	}

	// Precondition 2: the code resolves to an existing referrer
	referrer, err := userRepo.GetByReferralCode(ctx, *buyer.ReferredBy)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			e.logger.Warn("Referral code has no owner, skipping settlement", map[string]any{
				"user_id":       buyer.ID,
				"referral_code": *buyer.ReferredBy,
			})
			return false, nil
		}
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, 0, "resolve referrer", err)
	}

	// Precondition 3: this confirmation took the buyer's completed purchase
	// count from 0 to 1
	count, err := e.uow.GetTransactionRepository(ctx).CountCompletedPurchases(ctx, buyer.ID)
	if err != nil {
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, referrer.ID, "count purchases", err)
	}
	if count != 1 {
		e.logger.Debug("Not a first purchase, skipping settlement", map[string]any{
			"user_id":                  buyer.ID,
			"completed_purchase_count": count,
		})
		return false, nil
	}

	// Precondition 4: no commission exists yet for this pair
	commissionRepo := e.uow.GetCommissionRepository(ctx)
	exists, err := commissionRepo.ExistsForPair(ctx, referrer.ID, buyer.ID)
	if err != nil {
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, referrer.ID, "duplicate check", err)
	}
	if exists {
		return false, nil
	}

	rate := e.currentRate(ctx)
	effect := entity.ComputeCommission(purchase.AmountCents, purchase.TokenAmount, purchase.PricePerTokenCents, rate)

	commission, err := entity.NewReferralCommission(referrer.ID, buyer.ID, purchase.ID, effect, e.timeProvider)
	if err != nil {
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, referrer.ID, "build commission", err)
	}

	if err := commissionRepo.Create(ctx, commission); err != nil {
		// The unique (referrer, referred user) index is the real idempotency
		// guard; a duplicate insert means another settlement won the race.
		if errs.IsDuplicateCommissionError(err) {
			e.logger.Info("Commission already settled concurrently", map[string]any{
				"referrer_id":      referrer.ID,
				"referred_user_id": buyer.ID,
			})
			return false, nil
		}
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, referrer.ID, "insert commission", err)
	}

	referrer.CreditCommission(effect.AmountCents, e.timeProvider)
	if err := userRepo.Update(ctx, referrer); err != nil {
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, referrer.ID, "credit referrer", err)
	}

	notification := entity.NewNotification(
		referrer.ID,
		"Referral commission earned",
		fmt.Sprintf("You earned %s USDT because %s completed their first purchase.",
			entity.FormatAmount(effect.AmountCents), buyer.Name),
		entity.NotificationCommission,
		e.timeProvider,
	)
	if err := e.uow.GetNotificationRepository(ctx).Create(ctx, notification); err != nil {
		return false, errs.NewSettlementError(purchase.ID, buyer.ID, referrer.ID, "create notification", err)
	}

	e.logger.Info("Referral commission settled", map[string]any{
		"referrer_id":             referrer.ID,
		"referred_user_id":        buyer.ID,
		"purchase_transaction_id": purchase.ID,
		"commission_amount":       entity.FormatAmount(effect.AmountCents),
		"commission_tokens":       entity.FormatAmount(effect.TokenAmount),
		"rate_basis_points":       rate,
	})

	return true, nil
}

// currentRate loads the configured referral rate inside the settlement
// transaction, falling back to the default when no settings row exists.
func (e *Engine) currentRate(ctx context.Context) int64 {
	settings, err := e.uow.GetSettingsRepository(ctx).GetCommissionSettings(ctx)
	if err != nil {
		e.logger.Warn("Failed to load commission settings, using default rate", map[string]any{
			"error": err.Error(),
		})
		return entity.DefaultReferralRateBasisPoints
	}
	return settings.Rate()
}

// SettleBestEffort runs Settle and absorbs failures: the error is logged and
// the purchase is queued for replay. The caller's own work is never affected.
func (e *Engine) SettleBestEffort(ctx context.Context, purchase *entity.Transaction) {
	err := e.Settle(ctx, purchase)
	if err == nil {
		return
	}

	e.logger.Error("Commission settlement failed, queueing retry", map[string]any{
		"purchase_transaction_id": purchase.ID,
		"user_id":                 purchase.UserID,
		"error":                   err.Error(),
	})

	retry := entity.NewSettlementRetry(purchase.ID, err.Error(), e.timeProvider)
	if enqueueErr := e.retryRepo.Enqueue(ctx, retry); enqueueErr != nil {
		e.logger.Error("Failed to enqueue settlement retry", map[string]any{
			"purchase_transaction_id": purchase.ID,
			"error":                   enqueueErr.Error(),
		})
	}
}
