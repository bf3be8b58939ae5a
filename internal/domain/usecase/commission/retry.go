package commission

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// retryBatchSize bounds how many queue entries one sweep processes
const retryBatchSize = 50

// RetryProcessor drains the settlement retry queue. Settlement is idempotent,
// so replaying an entry whose commission was meanwhile created is a no-op and
// still resolves the entry.
type RetryProcessor struct {
	engine          *Engine
	retryRepo       persistence.SettlementRetryRepository
	transactionRepo persistence.TransactionRepository
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// NewRetryProcessor creates a retry processor
func NewRetryProcessor(
	engine *Engine,
	retryRepo persistence.SettlementRetryRepository,
	transactionRepo persistence.TransactionRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *RetryProcessor {
	return &RetryProcessor{
		engine:          engine,
		retryRepo:       retryRepo,
		transactionRepo: transactionRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// ProcessPending replays unresolved queue entries and returns how many settled
func (p *RetryProcessor) ProcessPending(ctx context.Context) (int, error) {
	entries, err := p.retryRepo.ListUnresolved(ctx, retryBatchSize)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	p.logger.Info("Replaying queued commission settlements", map[string]any{
		"pending": len(entries),
	})

	resolved := 0
	for _, entry := range entries {
		if err := p.replay(ctx, entry); err != nil {
			entry.RecordFailure(err.Error(), p.timeProvider)
			p.logger.Warn("Settlement retry failed", map[string]any{
				"purchase_transaction_id": entry.PurchaseTransactionID,
				"attempts":                entry.Attempts,
				"error":                   err.Error(),
			})
		} else {
			entry.Resolve(p.timeProvider)
			resolved++
		}

		if err := p.retryRepo.Update(ctx, entry); err != nil {
			p.logger.Error("Failed to update settlement retry entry", map[string]any{
				"purchase_transaction_id": entry.PurchaseTransactionID,
				"error":                   err.Error(),
			})
		}
	}

	return resolved, nil
}

// replay re-runs settlement for one queue entry
func (p *RetryProcessor) replay(ctx context.Context, entry *entity.SettlementRetry) error {
	purchase, err := p.transactionRepo.GetByID(ctx, entry.PurchaseTransactionID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			// The purchase vanished; nothing left to settle
			p.logger.Warn("Queued purchase no longer exists, resolving entry", map[string]any{
				"purchase_transaction_id": entry.PurchaseTransactionID,
			})
			return nil
		}
		return err
	}

	return p.engine.Settle(ctx, purchase)
}
