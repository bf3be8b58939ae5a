package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/ditlabs/tokensale-crm/internal/domain/error"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/dto"
)

// respondError maps a domain error to an HTTP status and writes the
// standardized error body
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case domainerr.IsNotFoundError(err):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domainerr.ErrInvalidCredentials),
		errors.Is(err, domainerr.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, domainerr.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, domainerr.ErrDuplicateUser),
		domainerr.IsDuplicateCommissionError(err):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domainerr.ErrPriceNotConfigured):
		status = http.StatusConflict
		message = err.Error()
	case domainerr.IsStateError(err),
		errors.Is(err, domainerr.ErrInsufficientBalance),
		errors.Is(err, domainerr.ErrInsufficientTokens),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrInvalidEmail),
		errors.Is(err, domainerr.ErrInvalidReferralCode),
		errors.Is(err, domainerr.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}

// parseIDParam reads a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// respondBadRequest writes a 400 with the invalid-request code
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}
