package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/commission"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/pricing"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/purchase"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/withdrawal"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/dto"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/report"
)

// commissionListLimit bounds the admin commission overview
const commissionListLimit = 500

// xlsxContentType is the MIME type for exported spreadsheets
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the back-office operations
type AdminHandler struct {
	purchases   *purchase.Service
	pricing     *pricing.Service
	commissions *commission.Admin
	withdrawals *withdrawal.Service
	exporter    *report.XlsxExporter
}

// NewAdminHandler creates the admin endpoints handler
func NewAdminHandler(
	purchases *purchase.Service,
	pricingService *pricing.Service,
	commissions *commission.Admin,
	withdrawals *withdrawal.Service,
	exporter *report.XlsxExporter,
) *AdminHandler {
	return &AdminHandler{
		purchases:   purchases,
		pricing:     pricingService,
		commissions: commissions,
		withdrawals: withdrawals,
		exporter:    exporter,
	}
}

// ConfirmPayment decides a pending purchase: confirm credits tokens and
// settles any due referral commission, reject closes the request.
// POST /api/admin/confirm-payment
func (h *AdminHandler) ConfirmPayment(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid confirmation payload: "+err.Error())
		return
	}

	tx, err := h.purchases.ConfirmPayment(c.Request.Context(), req.TransactionID, req.Action, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// ManualDeposit records a USDT deposit observed on-chain and credits the
// user's balance.
// POST /api/admin/manual-deposit
func (h *AdminHandler) ManualDeposit(c *gin.Context) {
	var req dto.ManualDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid deposit payload: "+err.Error())
		return
	}

	amountCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	tx, err := h.purchases.ManualDeposit(c.Request.Context(), req.UserEmail, amountCents, req.TxHash, req.FromWallet)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// GetTokenPrice returns the current effective price.
// GET /api/admin/token-price
func (h *AdminHandler) GetTokenPrice(c *gin.Context) {
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

// SetTokenPrice sets the price for a given day (today when omitted).
// POST /api/admin/token-price
func (h *AdminHandler) SetTokenPrice(c *gin.Context) {
	var req dto.TokenPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid price payload: "+err.Error())
		return
	}

	priceCents, err := entity.ParseAmount(req.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	var effectiveDate *time.Time
	if req.EffectiveDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EffectiveDate)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.EffectiveDate)
			if err != nil {
				respondBadRequest(c, "Invalid effective date, expected RFC3339 or YYYY-MM-DD")
				return
			}
		}
		effectiveDate = &parsed
	}

	price, err := h.pricing.SetPrice(c.Request.Context(), priceCents, effectiveDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenPriceResponse{
		Price:         price.FormattedPrice(),
		EffectiveDate: price.EffectiveDate.Format("2006-01-02"),
	})
}

// ListCommissions returns the platform-wide settled commissions.
// GET /api/admin/commissions
func (h *AdminHandler) ListCommissions(c *gin.Context) {
	commissions, err := h.commissions.ListCommissions(c.Request.Context(), commissionListLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commissions": dto.NewCommissionResponses(commissions),
	})
}

// MarkCommissionPaid flags one commission as paid out.
// POST /api/admin/commissions/:id/mark-paid
func (h *AdminHandler) MarkCommissionPaid(c *gin.Context) {
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid commission ID")
		return
	}

	paid, err := h.commissions.MarkPaid(c.Request.Context(), commissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCommissionResponse(paid))
}

// GetSettings returns the platform commission settings.
// GET /api/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.commissions.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// UpdateSettings changes the platform referral rate.
// PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.CommissionSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid settings payload: "+err.Error())
		return
	}

	settings, err := h.commissions.UpdateRate(c.Request.Context(), req.RateBasisPoints)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// ListPendingWithdrawals returns withdrawal requests awaiting a decision.
// GET /api/admin/withdrawals
func (h *AdminHandler) ListPendingWithdrawals(c *gin.Context) {
	pending, err := h.withdrawals.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawals": dto.NewWithdrawalResponses(pending),
	})
}

// ProcessWithdrawal decides a pending withdrawal request.
// POST /api/admin/withdrawals/process
func (h *AdminHandler) ProcessWithdrawal(c *gin.Context) {
	var req dto.ProcessWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid withdrawal decision payload: "+err.Error())
		return
	}

	request, err := h.withdrawals.Process(c.Request.Context(), req.WithdrawalID, req.Action == "approve", req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(request))
}

// ExportTransactions streams an XLSX report of transactions and commissions
// for the requested period. Defaults to the last 30 days.
// GET /api/admin/reports/transactions?from=2026-08-01&to=2026-08-31
func (h *AdminHandler) ExportTransactions(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondBadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondBadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1)
	}

	buffer, err := h.exporter.ExportPeriod(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buffer.Bytes())
}

func newSettingsResponse(settings *entity.CommissionSettings) dto.CommissionSettingsResponse {
	response := dto.CommissionSettingsResponse{
		RateBasisPoints: settings.Rate(),
	}
	if !settings.UpdatedAt.IsZero() {
		response.UpdatedAt = settings.UpdatedAt.Format(time.RFC3339)
	}
	return response
}
