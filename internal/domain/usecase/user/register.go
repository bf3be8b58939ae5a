package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
)

// referralCodeLength is how many characters of the UUID become the code
const referralCodeLength = 8

// RegisterInput carries the registration form fields
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	ReferralCode string // The inviter's code; optional
}

// Register creates an account. Every account gets its own referral code; when
// the signup carries an inviter's code it is validated and recorded as
// ReferredBy, which never changes afterwards.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if len(input.Password) < 8 {
		return nil, errs.ErrInvalidCredentials
	}

	var referredBy *string
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		referrer, err := s.userRepo.GetByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, errs.ErrUserNotFound) {
				return nil, errs.ErrInvalidReferralCode
			}
			return nil, err
		}
		referredBy = &referrer.ReferralCode
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account, err := entity.NewUser(input.Email, input.Name, hash, newReferralCode(), referredBy, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", map[string]any{
		"user_id":       account.ID,
		"email":         account.Email,
		"referral_code": account.ReferralCode,
		"was_referred":  account.WasReferred(),
	})

	return account, nil
}

// Authenticate verifies login credentials and returns the account
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	account, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		return nil, errs.ErrInvalidCredentials
	}

	return account, nil
}

// newReferralCode issues a short uppercase code derived from a UUID
func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:referralCodeLength])
}
