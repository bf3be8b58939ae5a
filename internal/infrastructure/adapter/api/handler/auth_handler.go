package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/user"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/dto"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/auth"
)

// AuthHandler serves registration and login
type AuthHandler struct {
	users      *user.Service
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates the auth endpoints handler
func NewAuthHandler(users *user.Service, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
	}
}

// Register creates a new account and issues a token.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid registration payload: "+err.Error())
		return
	}

	account, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtManager.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(account),
	})
}

// Login authenticates credentials and issues a token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid login payload: "+err.Error())
		return
	}

	account, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtManager.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(account),
	})
}
