package persistence

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// WithdrawalRepository manages withdrawal request rows
type WithdrawalRepository interface {
	// Create inserts a pending withdrawal request
	Create(ctx context.Context, request *entity.WithdrawalRequest) error

	// GetByID retrieves a withdrawal request by primary key
	//
	// Possible errors:
	// - ErrWithdrawalNotFound: If the request doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error)

	// Update persists status and processing changes
	Update(ctx context.Context, request *entity.WithdrawalRequest) error

	// ListByUser returns the user's withdrawal requests, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error)

	// ListPending returns all withdrawal requests awaiting an admin decision
	ListPending(ctx context.Context) ([]*entity.WithdrawalRequest, error)
}
