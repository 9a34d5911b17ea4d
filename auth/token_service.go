// api/auth/token_service.go
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims is the signed claim set carried by every session token.
type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// RevocationStore holds revocation markers keyed by token, each expiring
// with the token's remaining lifetime.
type RevocationStore interface {
	RevokeToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// TokenService issues, validates and revokes signed session tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      RevocationStore
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, store RevocationStore) (*TokenService, error) {
	if secret == "" {
		return nil, vidora_errors.ErrMissingJWTSecret
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
	}, nil
}

// Issue produces a signed token for the subject with the kind's
// configured lifetime.
func (s *TokenService) Issue(subjectID string, kind TokenKind) (string, error) {
	return s.IssueWithTTL(subjectID, kind, s.ttlFor(kind))
}

// IssueWithTTL produces a signed token with an explicit lifetime.
func (s *TokenService) IssueWithTTL(subjectID string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssuePair issues an access/refresh token pair for the subject.
func (s *TokenService) IssuePair(subjectID string) (access, refresh string, err error) {
	access, err = s.Issue(subjectID, AccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.Issue(subjectID, RefreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Validate decodes and verifies a token of the expected kind. It returns
// nil for every expected failure (bad signature, expiry, kind mismatch,
// revocation) rather than an error; the caller treats nil as
// unauthenticated.
//
// A revocation-store outage is treated as "not revoked" with a warning,
// matching the rate limiter's fail-open posture.
func (s *TokenService) Validate(ctx context.Context, tokenString string, kind TokenKind) *Claims {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, vidora_errors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	if claims.Kind != kind {
		return nil
	}

	revoked, err := s.store.IsTokenRevoked(ctx, tokenString)
	if err != nil {
		logger.Warn("Revocation check failed, treating token as not revoked", zap.Error(err))
	} else if revoked {
		return nil
	}

	return claims
}

// Revoke writes a revocation marker whose TTL equals the token's
// remaining lifetime. Revoking an already-expired token is a no-op that
// still reports success; only malformed tokens and store failures
// report false.
func (s *TokenService) Revoke(ctx context.Context, tokenString string) bool {
	claims, err := s.DecodeUnverified(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		logger.Warn("Refusing to revoke malformed token", zap.Error(err))
		return false
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return true
	}

	if err := s.store.RevokeToken(ctx, tokenString, ttl); err != nil {
		logger.Error("Failed to store token revocation", zap.Error(err))
		return false
	}
	return true
}

// DecodeUnverified extracts claims without verifying the signature. Used
// only for non-authoritative concerns such as rate-limit partitioning;
// never as an authentication decision.
func (s *TokenService) DecodeUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) ttlFor(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return s.refreshTTL
	}
	return s.accessTTL
}
