package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/ditlabs/tokensale-crm/internal/domain/error"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/user"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/dto"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/middleware"
)

// notificationListLimit bounds the notification center page
const notificationListLimit = 50

// UserHandler serves the authenticated user's own data
type UserHandler struct {
	users *user.Service
}

// NewUserHandler creates the user endpoints handler
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// Dashboard returns balances and recent ledger activity.
// GET /api/user/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	dashboard, err := h.users.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		User:               dto.NewUserResponse(dashboard.User),
		RecentTransactions: dto.NewTransactionResponses(dashboard.RecentTransactions),
	})
}

// Referrals returns the referral code, invited users and earned commissions.
// GET /api/user/referrals
func (h *UserHandler) Referrals(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	overview, err := h.users.GetReferralOverview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	referred := make([]dto.ReferredUser, 0, len(overview.ReferredUsers))
	for _, invited := range overview.ReferredUsers {
		referred = append(referred, dto.ReferredUser{
			ID:       invited.ID,
			Name:     invited.Name,
			Email:    invited.Email,
			JoinedAt: invited.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, dto.ReferralOverviewResponse{
		ReferralCode:  overview.ReferralCode,
		ReferredUsers: referred,
		Commissions:   dto.NewCommissionResponses(overview.Commissions),
	})
}

// Notifications returns the user's notification center entries.
// GET /api/user/notifications
func (h *UserHandler) Notifications(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	notifications, err := h.users.ListNotifications(c.Request.Context(), userID, notificationListLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": dto.NewNotificationResponses(notifications),
	})
}

// MarkNotificationRead flags one notification as read.
// POST /api/user/notifications/:id/read
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.users.MarkNotificationRead(c.Request.Context(), userID, notificationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
