package notifier

import "context"

// Mailer sends transactional emails. Implementations must treat delivery as
// best effort: callers log failures and never let them abort database work.
type Mailer interface {
	// SendPurchaseConfirmation notifies a buyer that their purchase completed
	SendPurchaseConfirmation(ctx context.Context, toEmail, toName, amount, tokenAmount string) error

	// SendDepositRecorded notifies a user that an admin recorded a manual deposit
	SendDepositRecorded(ctx context.Context, toEmail, toName, amount, txHash string) error

	// SendWithdrawalApproved notifies a user that their withdrawal was approved
	SendWithdrawalApproved(ctx context.Context, toEmail, toName, tokenAmount, walletAddress string) error

	// SendAdminAlert notifies platform admins about an event that needs attention
	SendAdminAlert(ctx context.Context, subject, message string) error
}
