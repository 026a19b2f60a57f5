package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"

	"lottery_backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies the access/refresh token pair. The two
// kinds are signed with independent secrets so one can never stand in for
// the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Issue returns a fresh token pair for the user. Each token carries a call
// time iat and a random jti, so two pairs for the same subject are never
// byte-identical.
func (i *TokenIssuer) Issue(userID int64, email string) (models.TokenPair, error) {
	const op = "auth.Issue"

	access, err := i.sign(userID, email, i.accessSecret, i.accessTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := i.sign(userID, email, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *TokenIssuer) sign(userID int64, email string, secret []byte, ttl time.Duration) (string, error) {
	tokenID, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	// The jti keeps two tokens for the same subject distinct even when
	// they are minted within one clock second.
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        tokenID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks the signature and expiry of a token of the given kind. A bad
// signature and an expired token are indistinguishable to the caller: both
// come back as ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenStr string, kind TokenKind) (*Claims, error) {
	secret := i.accessSecret
	if kind == RefreshToken {
		secret = i.refreshSecret
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
