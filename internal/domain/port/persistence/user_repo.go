package persistence

import (
	"context"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByEmail retrieves a user by email address
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the given email
	// - ErrDatabaseConnection: If database connection fails
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByReferralCode retrieves the user owning the given referral code.
	// Used to resolve a referrer during registration and settlement.
	//
	// Possible errors:
	// - ErrUserNotFound: If no user owns the code
	// - ErrDatabaseConnection: If database connection fails
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If a user with the same email or referral code exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// Update persists user balance and profile changes.
	// The row is locked FOR UPDATE inside balance-mutating flows.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, user *entity.User) error

	// ListReferredBy returns users that signed up with the given referral code
	ListReferredBy(ctx context.Context, referralCode string) ([]*entity.User, error)
}
