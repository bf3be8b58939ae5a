package persistence

import (
	"context"
	"time"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with the
// transaction ledger
type TransactionRepository interface {
	// Create saves a new transaction row
	//
	// Possible errors:
	// - ErrConstraintViolation: If the reference is already taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update persists status and processing changes for an existing row
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction by primary key
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// CountCompletedPurchases returns how many PURCHASE transactions the user
	// has in COMPLETED status. The first-purchase check reads this inside the
	// settlement transaction.
	CountCompletedPurchases(ctx context.Context, userID uint64) (int64, error)

	// ListByUser returns the user's transactions, newest first
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Transaction, error)

	// ListByPeriod returns all transactions created in [from, to), newest
	// first. Used by the admin report export.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error)
}
