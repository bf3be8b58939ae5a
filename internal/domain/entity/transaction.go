package entity

import (
	"fmt"
	"time"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// TransactionType categorizes ledger entries
type TransactionType string

// Transaction types
const (
	TypePurchase           TransactionType = "PURCHASE"
	TypeWithdrawal         TransactionType = "WITHDRAWAL"
	TypeReferralCommission TransactionType = "REFERRAL_COMMISSION"
	TypeStake              TransactionType = "STAKE"
	TypeUnstake            TransactionType = "UNSTAKE"
)

// TransactionStatus defines the transaction lifecycle.
// PENDING transitions to COMPLETED or FAILED; both are terminal.
type TransactionStatus string

// Transaction statuses
const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one row of the financial ledger: a purchase, withdrawal,
// commission or staking event. Amounts are cents, token amounts hundredths.
type Transaction struct {
	ID                 uint64
	UserID             uint64
	Reference          string // Unique external reference for idempotent creation
	Type               TransactionType
	AmountCents        int64
	TokenAmount        int64
	PricePerTokenCents int64
	Status             TransactionStatus
	TxHash             string
	FromWallet         string
	AdminNotes         string
	CreatedAt          time.Time
	ProcessedAt        *time.Time
}

// NewTransaction creates a pending transaction with basic validation
func NewTransaction(
	userID uint64,
	reference string,
	txType TransactionType,
	amountCents int64,
	tokenAmount int64,
	pricePerTokenCents int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: empty transaction reference", errs.ErrInvalidRequest)
	}
	if !isValidTransactionType(txType) {
		return nil, fmt.Errorf("%w: invalid transaction type %s", errs.ErrInvalidRequest, txType)
	}
	if amountCents < 0 || tokenAmount < 0 {
		return nil, errs.ErrNegativeAmount
	}

	return &Transaction{
		UserID:             userID,
		Reference:          reference,
		Type:               txType,
		AmountCents:        amountCents,
		TokenAmount:        tokenAmount,
		PricePerTokenCents: pricePerTokenCents,
		Status:             StatusPending,
		CreatedAt:          timeProvider.Now(),
	}, nil
}

// IsPending reports whether the transaction still awaits processing
func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// IsCompleted reports whether the transaction reached COMPLETED
func (t *Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// MarkCompleted transitions PENDING -> COMPLETED.
// Returns an error if the transaction already reached a terminal status.
func (t *Transaction) MarkCompleted(timeProvider coreport.TimeProvider, adminNotes string) error {
	if t.Status != StatusPending {
		return errs.ErrTransactionNotPending
	}
	now := timeProvider.Now()
	t.ProcessedAt = &now
	t.Status = StatusCompleted
	if adminNotes != "" {
		t.AdminNotes = adminNotes
	}
	return nil
}

// MarkFailed transitions PENDING -> FAILED.
// Returns an error if the transaction already reached a terminal status.
func (t *Transaction) MarkFailed(timeProvider coreport.TimeProvider, adminNotes string) error {
	if t.Status != StatusPending {
		return errs.ErrTransactionNotPending
	}
	now := timeProvider.Now()
	t.ProcessedAt = &now
	t.Status = StatusFailed
	if adminNotes != "" {
		t.AdminNotes = adminNotes
	}
	return nil
}

// FormattedAmount returns the fiat amount as a 2-decimal string
func (t *Transaction) FormattedAmount() string {
	return FormatAmount(t.AmountCents)
}

// FormattedTokenAmount returns the token amount as a 2-decimal string
func (t *Transaction) FormattedTokenAmount() string {
	return FormatAmount(t.TokenAmount)
}

func isValidTransactionType(txType TransactionType) bool {
	switch txType {
	case TypePurchase, TypeWithdrawal, TypeReferralCommission, TypeStake, TypeUnstake:
		return true
	}
	return false
}
