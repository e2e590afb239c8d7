package services

import (
	"context"
	"time"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/repositories"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/security"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
)

// Token is the body returned by the token endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService struct {
	userRepo  *repositories.UserRepository
	secret    string
	algorithm string
	ttl       time.Duration
}

func NewAuthService(userRepo *repositories.UserRepository, secret, algorithm string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		secret:    secret,
		algorithm: algorithm,
		ttl:       ttl,
	}
}

// Login exchanges credentials for a bearer token whose subject is the user's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	user, ok := s.userRepo.AuthenticateUser(ctx, email, password)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnauthorized, "incorrect username or password")
	}

	token, err := security.CreateAccessToken(user.Email, user.ID, s.secret, s.algorithm, s.ttl)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}

	logger.Debug("access token issued", "user_id", user.ID)
	return &Token{AccessToken: token, TokenType: security.TokenTypeBearer}, nil
}

// CurrentUser resolves a bearer token to an enabled user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := security.DecodeAccessToken(token, s.secret, s.algorithm)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, "could not validate credentials")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "could not validate credentials")
	}
	if user.Disabled {
		return nil, errors.New(errors.ErrCodeInactiveUser, "inactive user")
	}
	return user, nil
}
