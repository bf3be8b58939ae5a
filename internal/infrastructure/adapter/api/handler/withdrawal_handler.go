package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	domainerr "github.com/ditlabs/tokensale-crm/internal/domain/error"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/withdrawal"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/dto"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/middleware"
)

// WithdrawalHandler serves token withdrawal operations for authenticated users
type WithdrawalHandler struct {
	withdrawals *withdrawal.Service
}

// NewWithdrawalHandler creates the withdrawal endpoints handler
func NewWithdrawalHandler(withdrawals *withdrawal.Service) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// Request locks tokens and opens a pending withdrawal.
// POST /api/withdrawals
func (h *WithdrawalHandler) Request(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	var req dto.WithdrawalRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid withdrawal payload: "+err.Error())
		return
	}

	tokenAmount, err := entity.ParseAmount(req.TokenAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	request, err := h.withdrawals.Request(c.Request.Context(), userID, tokenAmount, req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewWithdrawalResponse(request))
}

// List returns the user's own withdrawal requests.
// GET /api/withdrawals
func (h *WithdrawalHandler) List(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	requests, err := h.withdrawals.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawals": dto.NewWithdrawalResponses(requests),
	})
}
