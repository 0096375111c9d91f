package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

const tokenTTL = 12 * time.Hour

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	store  repositories.Store
	secret []byte
	log    *zap.Logger
}

func NewAuthService(store repositories.Store, secret string, log *zap.Logger) AuthService {
	return &authService{store: store, secret: []byte(secret), log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, &models.StorageError{Op: "get user", Err: err}
	}
	// Same error for unknown email and bad password.
	if user == nil || !user.IsActive {
		return nil, models.Validationf("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Warn("failed login attempt", zap.String("email", email))
		return nil, models.Validationf("invalid credentials")
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
