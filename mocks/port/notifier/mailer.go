package mocknotifier

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a testify mock for the notifier.Mailer port
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPurchaseConfirmation(ctx context.Context, toEmail, toName, amount, tokenAmount string) error {
	args := m.Called(ctx, toEmail, toName, amount, tokenAmount)
	return args.Error(0)
}

func (m *MockMailer) SendDepositRecorded(ctx context.Context, toEmail, toName, amount, txHash string) error {
	args := m.Called(ctx, toEmail, toName, amount, txHash)
	return args.Error(0)
}

func (m *MockMailer) SendWithdrawalApproved(ctx context.Context, toEmail, toName, tokenAmount, walletAddress string) error {
	args := m.Called(ctx, toEmail, toName, tokenAmount, walletAddress)
	return args.Error(0)
}

func (m *MockMailer) SendAdminAlert(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

// SilentMailer returns a mailer mock that swallows every send
func SilentMailer() *MockMailer {
	mailer := new(MockMailer)
	mailer.On("SendPurchaseConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mailer.On("SendDepositRecorded", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mailer.On("SendWithdrawalApproved", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mailer.On("SendAdminAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return mailer
}
