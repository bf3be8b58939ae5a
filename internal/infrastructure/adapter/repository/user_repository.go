package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
	lockRows        bool
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// WithRowLocking returns a copy of the repository whose single-row reads take
// a FOR UPDATE lock. The unit of work hands out this variant, so every user
// loaded inside a transaction holds an exclusive row lock and concurrent
// balance mutations for the same user serialize instead of losing updates.
func (r *UserRepository) WithRowLocking() *UserRepository {
	locked := *r
	locked.lockRows = true
	return &locked
}

// query starts a read, taking the FOR UPDATE lock when enabled
func (r *UserRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// modelToEntity converts a user model to an entity
func (r *UserRepository) modelToEntity(userModel *model.User) *entity.User {
	return &entity.User{
		ID:               userModel.ID,
		Email:            userModel.Email,
		Name:             userModel.Name,
		PasswordHash:     userModel.PasswordHash,
		Role:             userModel.Role,
		WalletAddress:    userModel.WalletAddress,
		TotalTokens:      userModel.TotalTokens,
		AvailableTokens:  userModel.AvailableTokens,
		StakedTokens:     userModel.StakedTokens,
		UsdtBalance:      userModel.UsdtBalance,
		ReferralEarnings: userModel.ReferralEarnings,
		TotalEarnings:    userModel.TotalEarnings,
		ReferralCode:     userModel.ReferralCode,
		ReferredBy:       userModel.ReferredBy,
		CreatedAt:        userModel.CreatedAt,
		UpdatedAt:        userModel.UpdatedAt,
	}
}

// entityToModel converts a user entity to a database model
func (r *UserRepository) entityToModel(user *entity.User) model.User {
	return model.User{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		PasswordHash:     user.PasswordHash,
		Role:             user.Role,
		WalletAddress:    user.WalletAddress,
		TotalTokens:      user.TotalTokens,
		AvailableTokens:  user.AvailableTokens,
		StakedTokens:     user.StakedTokens,
		UsdtBalance:      user.UsdtBalance,
		ReferralEarnings: user.ReferralEarnings,
		TotalEarnings:    user.TotalEarnings,
		ReferralCode:     user.ReferralCode,
		ReferredBy:       user.ReferredBy,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDuplicateUser
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.query(ctx).First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error)
	}
	return r.modelToEntity(&userModel), nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	result := r.query(ctx).Where("email = ?", email).First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by email", result.Error)
	}
	return r.modelToEntity(&userModel), nil
}

// GetByReferralCode retrieves the user owning the given referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var userModel model.User
	result := r.query(ctx).Where("referral_code = ?", code).First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by referral code", result.Error)
	}
	return r.modelToEntity(&userModel), nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := r.entityToModel(user)

	result := r.db.WithContext(ctx).Create(&userModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate user on create", map[string]any{
				"email": user.Email,
			})
			return errs.ErrDuplicateUser
		}
		return r.handleDatabaseError("creating user", result.Error)
	}

	user.ID = userModel.ID

	r.logger.Info("User created", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// Update persists balance and profile changes. Balances are written as
// absolute values, so mutating callers must load the user through the unit
// of work, whose repository takes the FOR UPDATE row lock.
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"total_tokens":      user.TotalTokens,
			"available_tokens":  user.AvailableTokens,
			"staked_tokens":     user.StakedTokens,
			"usdt_balance":      user.UsdtBalance,
			"referral_earnings": user.ReferralEarnings,
			"total_earnings":    user.TotalEarnings,
			"wallet_address":    user.WalletAddress,
			"updated_at":        user.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating user", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{
			"user_id": user.ID,
		})
		return errs.ErrUserNotFound
	}

	return nil
}

// ListReferredBy returns users that signed up with the given referral code
func (r *UserRepository) ListReferredBy(ctx context.Context, referralCode string) ([]*entity.User, error) {
	var models []model.User
	result := r.db.WithContext(ctx).
		Where("referred_by = ?", referralCode).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing referred users", result.Error)
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, r.modelToEntity(&models[i]))
	}
	return users, nil
}
