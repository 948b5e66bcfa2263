package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/librarium/catalog-api/internal/api/metrics"
	"github.com/librarium/catalog-api/internal/core/domain"
	"github.com/librarium/catalog-api/internal/core/ports"
)

// AuthService implements account creation and login.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// CreateUser registers a new account with a bcrypt-hashed password. A taken
// username surfaces as a validation failure.
func (s *AuthService) CreateUser(ctx context.Context, username, favouriteGenre, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.NewValidationError("username and password are required", map[string]any{
			"username": username,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		FavouriteGenre: favouriteGenre,
		PasswordHash:   string(hash),
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, domain.ErrUserExists) {
		return nil, domain.NewValidationError("username is taken", map[string]any{
			"username": username,
		})
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login checks the credentials and mints a signed bearer token. Unknown
// username and wrong password return the same generic error so callers
// cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

// generateToken signs a stateless HS256 token carrying {username, user_id}.
// Tokens are never stored; each request re-verifies the signature and expiry.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"user_id":  user.ID,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
