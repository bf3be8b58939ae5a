package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance   = 4001
	CodeInvalidAmount         = 4002
	CodeInvalidUserID         = 4003
	CodeDuplicateCommission   = 4004
	CodeConstraintViolation   = 4005
	CodeTransactionNotPending = 4006
	CodeInsufficientTokens    = 4007
	CodeInvalidReferralCode   = 4008
	CodeWithdrawalLocked      = 4009
	CodeInvalidCredentials    = 4010
	CodeUnauthorized          = 4011
	CodeForbidden             = 4012
	CodeUserNotFound          = 4040
	CodeTransactionNotFound   = 4041
	CodeWithdrawalNotFound    = 4042
	CodePriceNotConfigured    = 4043

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInsufficientBalance is returned when a user has insufficient USDT balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientTokens is returned when a user has fewer available tokens than requested
	ErrInsufficientTokens = errors.New("insufficient available tokens")

	// ErrInvalidAmount is returned when a monetary or token amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when an amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrInvalidEmail is returned when an email address is empty or malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidReferralCode is returned when a referral code does not match any user
	ErrInvalidReferralCode = errors.New("referral code does not exist")

	// ErrInvalidCredentials is returned when login credentials do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned when no valid authentication is present
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when the authenticated user lacks the required role
	ErrForbidden = errors.New("insufficient permissions")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when registering with an email that is already taken
	ErrDuplicateUser = errors.New("user already exists")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrTransactionNotPending is returned when confirming or rejecting a transaction
	// that has already reached a terminal status
	ErrTransactionNotPending = errors.New("transaction is not pending")

	// ErrWithdrawalNotFound is returned when the requested withdrawal doesn't exist
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")

	// ErrWithdrawalNotPending is returned when processing an already-processed withdrawal
	ErrWithdrawalNotPending = errors.New("withdrawal request is not pending")

	// ErrWithdrawalLocked is returned when approving a withdrawal whose lock
	// period has not elapsed yet
	ErrWithdrawalLocked = errors.New("withdrawal is still in its lock period")

	// ErrDuplicateCommission is returned when a commission already exists for the
	// (referrer, referred user) pair
	ErrDuplicateCommission = errors.New("commission already settled for this referral")

	// ErrCommissionNotFound is returned when the requested commission doesn't exist
	ErrCommissionNotFound = errors.New("commission not found")

	// ErrPriceNotConfigured is returned when no token price has been configured yet
	ErrPriceNotConfigured = errors.New("token price is not configured")

	// ErrNotificationNotFound is returned when the requested notification doesn't exist
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInsufficientTokens):
		return CodeInsufficientTokens
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidReferralCode):
		return CodeInvalidReferralCode
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrDuplicateCommission):
		return CodeDuplicateCommission
	case errors.Is(err, ErrTransactionNotPending), errors.Is(err, ErrWithdrawalNotPending):
		return CodeTransactionNotPending
	case errors.Is(err, ErrWithdrawalLocked):
		return CodeWithdrawalLocked
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrWithdrawalNotFound):
		return CodeWithdrawalNotFound
	case errors.Is(err, ErrPriceNotConfigured):
		return CodePriceNotConfigured
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	default:
		return CodeInternalServer
	}
}

// BalanceError represents an error related to balance operations
type BalanceError struct {
	UserID         uint64
	Amount         string
	CurrentBalance string
	Err            error
}

// Error implements the error interface for BalanceError
func (e *BalanceError) Error() string {
	return fmt.Sprintf("balance operation failed for user %d (current balance: %s, amount: %s): %v",
		e.UserID, e.CurrentBalance, e.Amount, e.Err)
}

// Unwrap returns the underlying error
func (e *BalanceError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "balance_error",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrentBalance,
		"error":           e.Err.Error(),
		"error_code":      ErrorCode(e.Err),
	}
}

// SettlementError represents a failure while settling a referral commission.
// It carries enough context to diagnose the failure and to queue a retry.
type SettlementError struct {
	PurchaseTransactionID uint64
	ReferredUserID        uint64
	ReferrerID            uint64
	Reason                string
	Err                   error
}

// Error implements the error interface for SettlementError
func (e *SettlementError) Error() string {
	return fmt.Sprintf("commission settlement failed for purchase %d (referred user: %d, referrer: %d): %s - %v",
		e.PurchaseTransactionID, e.ReferredUserID, e.ReferrerID, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *SettlementError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *SettlementError) LogFields() map[string]any {
	return map[string]any{
		"error_type":              "settlement_error",
		"purchase_transaction_id": e.PurchaseTransactionID,
		"referred_user_id":        e.ReferredUserID,
		"referrer_id":             e.ReferrerID,
		"reason":                  e.Reason,
		"error":                   e.Err.Error(),
		"error_code":              ErrorCode(e.Err),
	}
}

// NewSettlementError creates a detailed settlement error
func NewSettlementError(purchaseTxID, referredUserID, referrerID uint64, reason string, err error) error {
	return &SettlementError{
		PurchaseTransactionID: purchaseTxID,
		ReferredUserID:        referredUserID,
		ReferrerID:            referrerID,
		Reason:                reason,
		Err:                   err,
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	UserID      uint64
	Amount      string
	CurrBalance string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %d: required %s, available %s",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID uint64, amount, currentBalance string) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// IsDuplicateCommissionError checks if the error is a duplicate commission error
func IsDuplicateCommissionError(err error) bool {
	return errors.Is(err, ErrDuplicateCommission)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrWithdrawalNotFound) ||
		errors.Is(err, ErrCommissionNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}

// IsStateError checks if the error is caused by an operation on a record in the
// wrong lifecycle state
func IsStateError(err error) bool {
	return errors.Is(err, ErrTransactionNotPending) ||
		errors.Is(err, ErrWithdrawalNotPending) ||
		errors.Is(err, ErrWithdrawalLocked)
}
