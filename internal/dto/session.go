package dto

import "github.com/payswift/payswift_backend/internal/core/domain"

// LoginRequest carries the demo credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the bearer token and the stored profile.
type LoginResponse struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}
