package dto

// RegisterRequest is the signup form payload
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referralCode"`
}

// LoginRequest is the login form payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the authenticated profile
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
