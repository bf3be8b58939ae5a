package withdrawal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/notifier"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/pricing"
)

// Service implements token withdrawal requests and their admin processing
type Service struct {
	uow          persistence.UnitOfWork
	userRepo     persistence.UserRepository
	pricing      *pricing.Service
	mailer       notifier.Mailer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a withdrawal service
func NewService(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	pricingService *pricing.Service,
	mailer notifier.Mailer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		userRepo:     userRepo,
		pricing:      pricingService,
		mailer:       mailer,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Request creates a pending withdrawal: the requested tokens are locked out
// of the available pool and a pending WITHDRAWAL ledger row plus the
// withdrawal-specific tracking row are written atomically.
func (s *Service) Request(ctx context.Context, userID uint64, tokenAmount int64, walletAddress string) (*entity.WithdrawalRequest, error) {
	price, err := s.pricing.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}
	amountCents := tokenAmount * price.PriceCents / 100

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	request, err := s.requestInTx(txCtx, userID, tokenAmount, amountCents, price.PriceCents, walletAddress)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal requested", map[string]any{
		"user_id":       userID,
		"withdrawal_id": request.ID,
		"token_amount":  entity.FormatAmount(tokenAmount),
		"wallet":        walletAddress,
	})

	return request, nil
}

func (s *Service) requestInTx(ctx context.Context, userID uint64, tokenAmount, amountCents, priceCents int64, walletAddress string) (*entity.WithdrawalRequest, error) {
	userRepo := s.uow.GetUserRepository(ctx)

	account, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := account.LockTokens(tokenAmount, s.timeProvider); err != nil {
		return nil, err
	}
	if err := userRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	ledger, err := entity.NewTransaction(
		userID,
		"WDR-"+uuid.NewString(),
		entity.TypeWithdrawal,
		amountCents,
		tokenAmount,
		priceCents,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetTransactionRepository(ctx).Create(ctx, ledger); err != nil {
		return nil, err
	}

	request, err := entity.NewWithdrawalRequest(userID, ledger.ID, tokenAmount, amountCents, walletAddress, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetWithdrawalRepository(ctx).Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// Process applies an admin approve/reject decision to a pending withdrawal.
//
// Approve completes the WITHDRAWAL ledger row and removes the locked tokens
// permanently; it is refused with ErrWithdrawalLocked until the request's
// lock period has elapsed. Reject fails the ledger row and returns the locked
// tokens to the available pool, at any time. Either way the decision is
// atomic, terminal and notifies the user.
func (s *Service) Process(ctx context.Context, withdrawalID uint64, approve bool, adminNotes string) (*entity.WithdrawalRequest, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	request, account, err := s.processInTx(txCtx, withdrawalID, approve, adminNotes)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal processed", map[string]any{
		"withdrawal_id": request.ID,
		"user_id":       request.UserID,
		"approved":      approve,
	})

	if approve {
		if err := s.mailer.SendWithdrawalApproved(ctx, account.Email, account.Name,
			entity.FormatAmount(request.TokenAmount), request.WalletAddress); err != nil {
			s.logger.Warn("Failed to send withdrawal approval email", map[string]any{
				"withdrawal_id": request.ID,
				"error":         err.Error(),
			})
		}
	}

	return request, nil
}

func (s *Service) processInTx(ctx context.Context, withdrawalID uint64, approve bool, adminNotes string) (*entity.WithdrawalRequest, *entity.User, error) {
	withdrawalRepo := s.uow.GetWithdrawalRepository(ctx)

	request, err := withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, nil, err
	}

	userRepo := s.uow.GetUserRepository(ctx)
	account, err := userRepo.GetByID(ctx, request.UserID)
	if err != nil {
		return nil, nil, err
	}

	transactionRepo := s.uow.GetTransactionRepository(ctx)
	ledger, err := transactionRepo.GetByID(ctx, request.TransactionID)
	if err != nil {
		return nil, nil, err
	}

	if approve {
		if err := request.Approve(s.timeProvider, adminNotes); err != nil {
			return nil, nil, err
		}
		if err := ledger.MarkCompleted(s.timeProvider, adminNotes); err != nil {
			return nil, nil, err
		}
		account.FinalizeWithdrawal(request.TokenAmount, s.timeProvider)
	} else {
		if err := request.Reject(s.timeProvider, adminNotes); err != nil {
			return nil, nil, err
		}
		if err := ledger.MarkFailed(s.timeProvider, adminNotes); err != nil {
			return nil, nil, err
		}
		account.UnlockTokens(request.TokenAmount, s.timeProvider)
	}

	if err := withdrawalRepo.Update(ctx, request); err != nil {
		return nil, nil, err
	}
	if err := transactionRepo.Update(ctx, ledger); err != nil {
		return nil, nil, err
	}
	if err := userRepo.Update(ctx, account); err != nil {
		return nil, nil, err
	}

	title := "Withdrawal rejected"
	message := fmt.Sprintf("Your withdrawal of %s DIT was rejected and the tokens returned to your balance.",
		entity.FormatAmount(request.TokenAmount))
	if approve {
		title = "Withdrawal approved"
		message = fmt.Sprintf("Your withdrawal of %s DIT to %s was approved.",
			entity.FormatAmount(request.TokenAmount), request.WalletAddress)
	}
	notification := entity.NewNotification(account.ID, title, message, entity.NotificationWithdrawal, s.timeProvider)
	if err := s.uow.GetNotificationRepository(ctx).Create(ctx, notification); err != nil {
		return nil, nil, err
	}

	return request, account, nil
}

// ListForUser returns the user's withdrawal requests
func (s *Service) ListForUser(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error) {
	return s.uow.GetWithdrawalRepository(ctx).ListByUser(ctx, userID)
}

// ListPending returns all withdrawals awaiting an admin decision
func (s *Service) ListPending(ctx context.Context) ([]*entity.WithdrawalRequest, error) {
	return s.uow.GetWithdrawalRepository(ctx).ListPending(ctx)
}
