package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/payswift/payswift_backend/internal/apperrors"
	"github.com/payswift/payswift_backend/internal/core/domain"
	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
	"github.com/payswift/payswift_backend/internal/dto"
)

// sessionService implements the demo login: one configured credential, a
// profile persisted under the user key, and an HS256 bearer token.
type sessionService struct {
	userRepo portsrepo.UserRepositoryFacade

	demoEmail        string
	demoPasswordHash []byte

	jwtSecret []byte
	jwtExpiry time.Duration
	jwtIssuer string

	now func() time.Time
}

// NewSessionService creates the session service. demoPassword is hashed
// once at construction so Login only ever compares bcrypt hashes.
func NewSessionService(userRepo portsrepo.UserRepositoryFacade, demoEmail, demoPassword, jwtSecret, jwtIssuer string, jwtExpiry time.Duration) (portssvc.SessionSvcFacade, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	return &sessionService{
		userRepo:         userRepo,
		demoEmail:        strings.ToLower(demoEmail),
		demoPasswordHash: hash,
		jwtSecret:        []byte(jwtSecret),
		jwtExpiry:        jwtExpiry,
		jwtIssuer:        jwtIssuer,
		now:              time.Now,
	}, nil
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

func (s *sessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.ToLower(req.Email) != s.demoEmail ||
		bcrypt.CompareHashAndPassword(s.demoPasswordHash, []byte(req.Password)) != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.Find(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &domain.UserProfile{
			ID:      uuid.NewString(),
			Name:    nameFromEmail(req.Email),
			Email:   strings.ToLower(req.Email),
			Balance: decimal.NewFromInt(5000),
		}
		if err := s.userRepo.Save(ctx, *user); err != nil {
			return nil, err
		}
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.LoginResponse{Token: token, User: *user}, nil
}

func (s *sessionService) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	user, err := s.userRepo.Find(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func nameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	if local == "" {
		return "PaySwift User"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
