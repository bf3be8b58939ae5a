package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	domainerr "github.com/ditlabs/tokensale-crm/internal/domain/error"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/pricing"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/purchase"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/user"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/dto"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/middleware"
)

// transactionListLimit bounds the transaction history page
const transactionListLimit = 100

// PurchaseHandler serves token purchase operations for authenticated users
type PurchaseHandler struct {
	purchases *purchase.Service
	users     *user.Service
	pricing   *pricing.Service
}

// NewPurchaseHandler creates the purchase endpoints handler
func NewPurchaseHandler(purchases *purchase.Service, users *user.Service, pricingService *pricing.Service) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		users:     users,
		pricing:   pricingService,
	}
}

// RequestPurchase opens a pending purchase awaiting payment confirmation.
// POST /api/tokens/purchase
func (h *PurchaseHandler) RequestPurchase(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid purchase payload: "+err.Error())
		return
	}

	amountCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	tx, err := h.purchases.RequestPurchase(c.Request.Context(), userID, amountCents)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// PurchaseFromBalance buys tokens against the internal USDT balance.
// POST /api/tokens/purchase-from-balance
func (h *PurchaseHandler) PurchaseFromBalance(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid purchase payload: "+err.Error())
		return
	}

	amountCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	tx, err := h.purchases.PurchaseFromBalance(c.Request.Context(), userID, amountCents)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// Transactions returns the user's ledger history.
// GET /api/tokens/transactions
func (h *PurchaseHandler) Transactions(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthorized)
		return
	}

	transactions, err := h.users.ListTransactions(c.Request.Context(), userID, transactionListLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": dto.NewTransactionResponses(transactions),
	})
}

// CurrentPrice returns today's effective token price.
// GET /api/tokens/price
func (h *PurchaseHandler) CurrentPrice(c *gin.Context) {
	price, err := h.pricing.CurrentPrice(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenPriceResponse{
		Price:         price.FormattedPrice(),
		EffectiveDate: price.EffectiveDate.Format("2006-01-02"),
	})
}
