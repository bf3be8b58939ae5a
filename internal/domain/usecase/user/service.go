package user

import (
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// Service implements account registration, login checks and the dashboard
// queries backing the user-facing pages.
type Service struct {
	userRepo         persistence.UserRepository
	transactionRepo  persistence.TransactionRepository
	commissionRepo   persistence.CommissionRepository
	notificationRepo persistence.NotificationRepository
	hasher           coreport.PasswordHasher
	timeProvider     coreport.TimeProvider
	logger           coreport.Logger
}

// NewService creates a user service
func NewService(
	userRepo persistence.UserRepository,
	transactionRepo persistence.TransactionRepository,
	commissionRepo persistence.CommissionRepository,
	notificationRepo persistence.NotificationRepository,
	hasher coreport.PasswordHasher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		userRepo:         userRepo,
		transactionRepo:  transactionRepo,
		commissionRepo:   commissionRepo,
		notificationRepo: notificationRepo,
		hasher:           hasher,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}
