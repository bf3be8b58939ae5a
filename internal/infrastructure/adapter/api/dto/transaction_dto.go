package dto

import (
	"time"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// TransactionResponse is the API view of one ledger row
type TransactionResponse struct {
	ID          uint64 `json:"id"`
	Reference   string `json:"reference"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	TokenAmount string `json:"tokenAmount"`
	Price       string `json:"price"`
	Status      string `json:"status"`
	TxHash      string `json:"txHash,omitempty"`
	CreatedAt   string `json:"createdAt"`
	ProcessedAt string `json:"processedAt,omitempty"`
}

// NewTransactionResponse maps a transaction entity to its API representation
func NewTransactionResponse(tx *entity.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:          tx.ID,
		Reference:   tx.Reference,
		Type:        string(tx.Type),
		Amount:      tx.FormattedAmount(),
		TokenAmount: tx.FormattedTokenAmount(),
		Price:       entity.FormatAmount(tx.PricePerTokenCents),
		Status:      string(tx.Status),
		TxHash:      tx.TxHash,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.ProcessedAt != nil {
		response.ProcessedAt = tx.ProcessedAt.Format(time.RFC3339)
	}
	return response
}

// NewTransactionResponses maps a slice of transaction entities
func NewTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, NewTransactionResponse(tx))
	}
	return responses
}

// PurchaseRequest asks to buy tokens; the amount is a decimal USDT string
type PurchaseRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// CommissionResponse is the API view of one settled commission
type CommissionResponse struct {
	ID             uint64 `json:"id"`
	ReferrerID     uint64 `json:"referrerId"`
	ReferredUserID uint64 `json:"referredUserId"`
	Amount         string `json:"amount"`
	TokenAmount    string `json:"tokenAmount"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	IsPaid         bool   `json:"isPaid"`
	CreatedAt      string `json:"createdAt"`
}

// NewCommissionResponse maps a commission entity to its API representation
func NewCommissionResponse(c *entity.ReferralCommission) CommissionResponse {
	return CommissionResponse{
		ID:             c.ID,
		ReferrerID:     c.ReferrerID,
		ReferredUserID: c.ReferredUserID,
		Amount:         c.FormattedAmount(),
		TokenAmount:    entity.FormatAmount(c.TokenAmount),
		Month:          c.Month,
		Year:           c.Year,
		IsPaid:         c.IsPaid,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

// NewCommissionResponses maps a slice of commission entities
func NewCommissionResponses(commissions []*entity.ReferralCommission) []CommissionResponse {
	responses := make([]CommissionResponse, 0, len(commissions))
	for _, c := range commissions {
		responses = append(responses, NewCommissionResponse(c))
	}
	return responses
}

// WithdrawalRequestPayload asks to withdraw tokens to an external wallet
type WithdrawalRequestPayload struct {
	TokenAmount   string `json:"tokenAmount" binding:"required"`
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// WithdrawalResponse is the API view of one withdrawal request
type WithdrawalResponse struct {
	ID            uint64 `json:"id"`
	UserID        uint64 `json:"userId"`
	TokenAmount   string `json:"tokenAmount"`
	Amount        string `json:"amount"`
	WalletAddress string `json:"walletAddress"`
	Status        string `json:"status"`
	LockUntil     string `json:"lockUntil"`
	CreatedAt     string `json:"createdAt"`
	ProcessedAt   string `json:"processedAt,omitempty"`
}

// NewWithdrawalResponse maps a withdrawal entity to its API representation
func NewWithdrawalResponse(w *entity.WithdrawalRequest) WithdrawalResponse {
	response := WithdrawalResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		TokenAmount:   entity.FormatAmount(w.TokenAmount),
		Amount:        entity.FormatAmount(w.AmountCents),
		WalletAddress: w.WalletAddress,
		Status:        string(w.Status),
		LockUntil:     w.LockUntil.Format(time.RFC3339),
		CreatedAt:     w.CreatedAt.Format(time.RFC3339),
	}
	if w.ProcessedAt != nil {
		response.ProcessedAt = w.ProcessedAt.Format(time.RFC3339)
	}
	return response
}

// NewWithdrawalResponses maps a slice of withdrawal entities
func NewWithdrawalResponses(withdrawals []*entity.WithdrawalRequest) []WithdrawalResponse {
	responses := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		responses = append(responses, NewWithdrawalResponse(w))
	}
	return responses
}
