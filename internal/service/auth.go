package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// AuthService handles registration, login and token issuance.
type AuthService struct {
	userRepo    repository.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService. The secret must be non-empty.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, expiryHours int) (*AuthService, error) {
	if userRepo == nil {
		return nil, errors.New("user repository cannot be nil for AuthService")
	}
	if jwtSecret == "" {
		return nil, errors.New("JWT secret cannot be empty for AuthService")
	}
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: time.Duration(expiryHours) * time.Hour,
	}, nil
}

// Register creates a new account. The returned user never carries the
// password hash.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	logCtx := logrus.WithField("username", username)

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Register: failed to check username availability")
		return nil, ErrInternalServer
	}
	if existing != nil {
		return nil, ErrRegistrationFailed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logCtx.WithError(err).Error("Register: failed to hash password")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username: username,
		Password: string(hashed),
		Email:    email,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Register: failed to save user")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered")
	user.Password = ""
	return user, nil
}

// Login verifies the credentials and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrAuthenticationFailed
		}
		logrus.WithError(err).WithField("username", username).Error("Login: failed to look up user")
		return "", ErrInternalServer
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrAuthenticationFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
