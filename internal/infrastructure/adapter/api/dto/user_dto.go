package dto

import (
	"time"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID               uint64 `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	WalletAddress    string `json:"walletAddress,omitempty"`
	TotalTokens      string `json:"totalTokens"`
	AvailableTokens  string `json:"availableTokens"`
	StakedTokens     string `json:"stakedTokens"`
	UsdtBalance      string `json:"usdtBalance"`
	ReferralEarnings string `json:"referralEarnings"`
	TotalEarnings    string `json:"totalEarnings"`
	ReferralCode     string `json:"referralCode"`
	WasReferred      bool   `json:"wasReferred"`
}

// NewUserResponse maps a user entity to its API representation
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		Role:             user.Role,
		WalletAddress:    user.WalletAddress,
		TotalTokens:      entity.FormatAmount(user.TotalTokens),
		AvailableTokens:  entity.FormatAmount(user.AvailableTokens),
		StakedTokens:     entity.FormatAmount(user.StakedTokens),
		UsdtBalance:      user.FormattedUsdtBalance(),
		ReferralEarnings: user.FormattedReferralEarnings(),
		TotalEarnings:    entity.FormatAmount(user.TotalEarnings),
		ReferralCode:     user.ReferralCode,
		WasReferred:      user.WasReferred(),
	}
}

// DashboardResponse aggregates the user landing page
type DashboardResponse struct {
	User               UserResponse          `json:"user"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

// ReferralOverviewResponse is the referral page payload
type ReferralOverviewResponse struct {
	ReferralCode  string               `json:"referralCode"`
	ReferredUsers []ReferredUser       `json:"referredUsers"`
	Commissions   []CommissionResponse `json:"commissions"`
}

// ReferredUser is the reduced view of an invited account
type ReferredUser struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt string `json:"joinedAt"`
}

// NotificationResponse is one notification center entry
type NotificationResponse struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// NewNotificationResponses maps a slice of notification entities
func NewNotificationResponses(notifications []*entity.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Kind:      n.Kind,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses
}
