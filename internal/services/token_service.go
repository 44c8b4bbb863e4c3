package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"github.com/yukikurage/user-task-api/internal/utils"
)

const (
	MsgTokenExpired = "Token expirado. Por favor, inicie sesión nuevamente"
	MsgTokenInvalid = "Token inválido. Verifique sus credenciales"
)

// UserClaims carries the full user record as the token payload.
type UserClaims struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	LastLogin string `json:"lastLogin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer tokens signed with a shared secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs user into an HS256 token valid for the configured TTL.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := UserClaims{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: utils.NormalizeTimestamp(user.CreatedAt),
		LastLogin: utils.NormalizeTimestamp(user.LastLogin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry. Expired tokens are
// reported separately from every other failure.
func (s *TokenService) Verify(tokenString string) error {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apierrors.Auth(MsgTokenExpired, err)
		}
		return apierrors.Auth(MsgTokenInvalid, err)
	}
	if !token.Valid {
		return apierrors.Auth(MsgTokenInvalid, nil)
	}
	return nil
}
