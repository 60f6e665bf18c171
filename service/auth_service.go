package service

import (
	"context"
	"fmt"
	"time"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const revokedSessionKeyPrefix = "session:revoked:"

// AuthService owns credential hashing and session tokens. Tokens are
// stateless JWTs; logout works by marking the token ID revoked in the
// cache until the token would have expired anyway.
type AuthService struct {
	secretKey []byte
	tokenTTL  time.Duration
	cache     ICacheClient
}

func NewAuthService(secretKey []byte, tokenTTL time.Duration, cache ICacheClient) *AuthService {
	return &AuthService{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		cache:     cache,
	}
}

// HashPassword derives the stored form of a credential. The plaintext is
// never retained.
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a credential by recomputation.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateSessionToken issues a signed token marking the session
// Authenticated for the given account.
func (s *AuthService) GenerateSessionToken(accountNumber string) (string, error) {
	now := time.Now()

	claims := &model.SessionClaims{
		AccountNumber: accountNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountNumber,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("account_number", accountNumber).Error("Failed to sign session token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates a session token and returns its claims.
// Expired, tampered and revoked tokens all report AuthenticationFailed.
func (s *AuthService) ParseSessionToken(ctx context.Context, tokenString string) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrAuthenticationFailed
	}

	if _, err := s.cache.Get(ctx, revokedSessionKeyPrefix+claims.ID).Result(); err == nil {
		return nil, common.ErrAuthenticationFailed
	} else if err != redis.Nil {
		logger.Log.WithError(err).Warn("Could not check session revocation state")
	}

	return claims, nil
}

// RevokeSessionToken ends the session for good; the token ID stays in the
// revocation set until its natural expiry.
func (s *AuthService) RevokeSessionToken(ctx context.Context, tokenString string) error {
	claims, err := s.ParseSessionToken(ctx, tokenString)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedSessionKeyPrefix+claims.ID, "1", ttl).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to revoke session token")
		return fmt.Errorf("failed to revoke session token: %w", err)
	}
	return nil
}
