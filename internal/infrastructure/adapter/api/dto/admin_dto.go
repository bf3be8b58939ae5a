package dto

// ConfirmPaymentRequest is the admin decision on a pending purchase
type ConfirmPaymentRequest struct {
	TransactionID uint64 `json:"transactionId" binding:"required"`
	Action        string `json:"action" binding:"required,oneof=confirm reject"`
	AdminNotes    string `json:"adminNotes"`
}

// ManualDepositRequest records a USDT deposit observed on-chain
type ManualDepositRequest struct {
	UserEmail  string `json:"userEmail" binding:"required,email"`
	Amount     string `json:"amount" binding:"required"`
	TxHash     string `json:"txHash" binding:"required"`
	FromWallet string `json:"fromWallet"`
}

// TokenPriceRequest sets the token price; the amount is a decimal USDT string.
// EffectiveDate is optional RFC3339; empty means today.
type TokenPriceRequest struct {
	Price         string `json:"price" binding:"required"`
	EffectiveDate string `json:"effectiveDate"`
}

// TokenPriceResponse is the API view of a price row
type TokenPriceResponse struct {
	Price         string `json:"price"`
	EffectiveDate string `json:"effectiveDate"`
}

// CommissionSettingsRequest updates the platform referral rate
type CommissionSettingsRequest struct {
	RateBasisPoints int64 `json:"rateBasisPoints" binding:"required"`
}

// CommissionSettingsResponse is the API view of the platform settings
type CommissionSettingsResponse struct {
	RateBasisPoints int64  `json:"rateBasisPoints"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// ProcessWithdrawalRequest is the admin decision on a pending withdrawal
type ProcessWithdrawalRequest struct {
	WithdrawalID uint64 `json:"withdrawalId" binding:"required"`
	Action       string `json:"action" binding:"required,oneof=approve reject"`
	AdminNotes   string `json:"adminNotes"`
}
