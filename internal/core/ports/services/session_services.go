package services

import (
	"context"

	"github.com/payswift/payswift_backend/internal/core/domain"
	"github.com/payswift/payswift_backend/internal/dto"
)

// SessionSvcFacade handles the demo login and the stored profile.
type SessionSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
}
