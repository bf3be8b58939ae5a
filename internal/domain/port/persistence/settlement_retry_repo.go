package persistence

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// SettlementRetryRepository manages the queue of failed commission settlements
type SettlementRetryRepository interface {
	// Enqueue inserts a retry row for the purchase, or bumps the attempt
	// counter when one already exists for the same purchase transaction
	Enqueue(ctx context.Context, retry *entity.SettlementRetry) error

	// ListUnresolved returns queue entries that have not settled yet
	ListUnresolved(ctx context.Context, limit int) ([]*entity.SettlementRetry, error)

	// Update persists attempt counts and resolution
	Update(ctx context.Context, retry *entity.SettlementRetry) error
}
