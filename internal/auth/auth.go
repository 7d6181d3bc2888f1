// Package auth implements registration, password login and JWT
// verification for the API. Tokens are HS256 with the user id in the
// claims; handlers downstream read the id from the echo context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-fitness-coach/internal/profile"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AccessTokenDuration is how long an issued token stays valid.
const AccessTokenDuration = 30 * time.Minute

// UserIDContextKey is the echo context key the middleware stores the
// authenticated user id under.
const UserIDContextKey = "user_id"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
)

// JwtCustomClaims carries the authenticated identity inside the token.
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service issues and validates tokens against the user repository.
type Service struct {
	secret   []byte
	profiles *profile.Repository
}

// NewService creates an auth Service signing with the given secret.
func NewService(secret string, profiles *profile.Repository) *Service {
	return &Service{secret: []byte(secret), profiles: profiles}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*profile.UserProfile, error) {
	if _, err := s.profiles.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &profile.UserProfile{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
	}
	if err := s.profiles.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, int64, error) {
	u, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(u)
	if err != nil {
		return "", 0, err
	}
	return token, int64(AccessTokenDuration.Seconds()), nil
}

func (s *Service) generateAccessToken(u *profile.UserProfile) (string, error) {
	claims := &JwtCustomClaims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a raw token string and returns its claims.
func (s *Service) ParseToken(raw string) (*JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// Middleware returns an echo middleware that requires a valid bearer
// token and stores the user id in the request context.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
			}

			claims, err := s.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Debug().Err(err).Msg("token validation failed")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Could not validate credentials"})
			}

			c.Set(UserIDContextKey, claims.UserID)
			return next(c)
		}
	}
}
