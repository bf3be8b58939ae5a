package entity

import (
	"strings"
	"time"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// WithdrawalStatus defines the withdrawal request lifecycle
type WithdrawalStatus string

// Withdrawal statuses
const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// DefaultWithdrawalLockPeriod is how long withdrawn tokens stay locked before
// the request becomes eligible for processing.
const DefaultWithdrawalLockPeriod = 24 * time.Hour

// WithdrawalRequest tracks a user's request to withdraw tokens to an external
// wallet. It mirrors the WITHDRAWAL transaction with withdrawal-specific
// fields: lock period, destination wallet and processing metadata.
type WithdrawalRequest struct {
	ID            uint64
	UserID        uint64
	TransactionID uint64
	TokenAmount   int64
	AmountCents   int64
	WalletAddress string
	LockUntil     time.Time
	Status        WithdrawalStatus
	AdminNotes    string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
}

// NewWithdrawalRequest creates a pending withdrawal with the default lock period
func NewWithdrawalRequest(
	userID, transactionID uint64,
	tokenAmount, amountCents int64,
	walletAddress string,
	timeProvider coreport.TimeProvider,
) (*WithdrawalRequest, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if tokenAmount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return nil, errs.ErrInvalidRequest
	}

	now := timeProvider.Now()
	return &WithdrawalRequest{
		UserID:        userID,
		TransactionID: transactionID,
		TokenAmount:   tokenAmount,
		AmountCents:   amountCents,
		WalletAddress: walletAddress,
		LockUntil:     now.Add(DefaultWithdrawalLockPeriod),
		Status:        WithdrawalPending,
		CreatedAt:     now,
	}, nil
}

// IsPending reports whether the withdrawal still awaits an admin decision
func (w *WithdrawalRequest) IsPending() bool {
	return w.Status == WithdrawalPending
}

// Approve transitions PENDING -> APPROVED. Approval is only possible once
// the lock period has elapsed; rejection is allowed at any time.
//
// Possible errors:
// - ErrWithdrawalNotPending: If the request already reached a terminal status
// - ErrWithdrawalLocked: If the lock period has not elapsed yet
func (w *WithdrawalRequest) Approve(timeProvider coreport.TimeProvider, adminNotes string) error {
	if w.Status != WithdrawalPending {
		return errs.ErrWithdrawalNotPending
	}
	now := timeProvider.Now()
	if now.Before(w.LockUntil) {
		return errs.ErrWithdrawalLocked
	}
	w.Status = WithdrawalApproved
	w.ProcessedAt = &now
	if adminNotes != "" {
		w.AdminNotes = adminNotes
	}
	return nil
}

// Reject transitions PENDING -> REJECTED
func (w *WithdrawalRequest) Reject(timeProvider coreport.TimeProvider, adminNotes string) error {
	if w.Status != WithdrawalPending {
		return errs.ErrWithdrawalNotPending
	}
	now := timeProvider.Now()
	w.Status = WithdrawalRejected
	w.ProcessedAt = &now
	if adminNotes != "" {
		w.AdminNotes = adminNotes
	}
	return nil
}
