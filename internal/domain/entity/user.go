package entity

import (
	"strings"
	"time"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a platform account with token holdings and USDT balances.
// All monetary fields are cents; token fields are token-hundredths.
type User struct {
	ID            uint64
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	WalletAddress string

	TotalTokens     int64 // All tokens ever credited
	AvailableTokens int64 // Tokens not locked by staking or pending withdrawals
	StakedTokens    int64

	UsdtBalance      int64 // Internal USDT balance usable for balance purchases
	ReferralEarnings int64 // Commission earnings from referrals
	TotalEarnings    int64 // Referral earnings plus any other credited earnings

	// ReferralCode is this user's own code, issued at registration.
	// ReferredBy holds the inviter's code; once set it never changes.
	ReferralCode string
	ReferredBy   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user with a freshly issued referral code.
// referredBy may be nil for organic signups.
func NewUser(email, name, passwordHash, referralCode string, referredBy *string, timeProvider coreport.TimeProvider) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.ErrInvalidEmail
	}
	if referralCode == "" {
		return nil, errs.ErrInvalidReferralCode
	}

	now := timeProvider.Now()
	return &User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		ReferralCode: referralCode,
		ReferredBy:   referredBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// WasReferred reports whether the user signed up with a referral code
func (u *User) WasReferred() bool {
	return u.ReferredBy != nil && *u.ReferredBy != ""
}

// CreditTokens adds purchased tokens to both total and available holdings
func (u *User) CreditTokens(tokenAmount int64, timeProvider coreport.TimeProvider) {
	u.TotalTokens += tokenAmount
	u.AvailableTokens += tokenAmount
	u.UpdatedAt = timeProvider.Now()
}

// CreditUsdt adds to the internal USDT balance
func (u *User) CreditUsdt(amountCents int64, timeProvider coreport.TimeProvider) {
	u.UsdtBalance += amountCents
	u.UpdatedAt = timeProvider.Now()
}

// DebitUsdt subtracts from the internal USDT balance.
// Returns an error if the balance would go negative.
func (u *User) DebitUsdt(amountCents int64, timeProvider coreport.TimeProvider) error {
	if u.UsdtBalance < amountCents {
		return errs.ErrInsufficientBalance
	}
	u.UsdtBalance -= amountCents
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// CreditCommission credits a settled referral commission to the referrer:
// referral earnings, lifetime earnings and the spendable USDT balance all
// increase by the commission amount.
func (u *User) CreditCommission(amountCents int64, timeProvider coreport.TimeProvider) {
	u.ReferralEarnings += amountCents
	u.TotalEarnings += amountCents
	u.UsdtBalance += amountCents
	u.UpdatedAt = timeProvider.Now()
}

// LockTokens moves available tokens into a locked state for a pending
// withdrawal. Returns an error if not enough tokens are available.
func (u *User) LockTokens(tokenAmount int64, timeProvider coreport.TimeProvider) error {
	if u.AvailableTokens < tokenAmount {
		return errs.ErrInsufficientTokens
	}
	u.AvailableTokens -= tokenAmount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// UnlockTokens returns previously locked tokens to the available pool,
// used when a withdrawal is rejected.
func (u *User) UnlockTokens(tokenAmount int64, timeProvider coreport.TimeProvider) {
	u.AvailableTokens += tokenAmount
	u.UpdatedAt = timeProvider.Now()
}

// FinalizeWithdrawal removes locked tokens permanently after an approved
// withdrawal is paid out.
func (u *User) FinalizeWithdrawal(tokenAmount int64, timeProvider coreport.TimeProvider) {
	u.TotalTokens -= tokenAmount
	u.UpdatedAt = timeProvider.Now()
}

// FormattedUsdtBalance returns the USDT balance as a 2-decimal string
func (u *User) FormattedUsdtBalance() string {
	return FormatAmount(u.UsdtBalance)
}

// FormattedReferralEarnings returns referral earnings as a 2-decimal string
func (u *User) FormattedReferralEarnings() string {
	return FormatAmount(u.ReferralEarnings)
}
