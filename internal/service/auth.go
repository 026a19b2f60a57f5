package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"lottery_backend/internal/auth"
	"lottery_backend/internal/models"
	"lottery_backend/internal/storage"
)

// AuthService owns the session lifecycle: registration, password and OAuth
// login, refresh rotation, logout.
type AuthService struct {
	storage storage.Storage
	tokens  *auth.TokenIssuer
}

func NewAuthService(st storage.Storage, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		storage: st,
		tokens:  tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	const op = "service.Register"

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.CreateUser(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, ErrEmailInUse
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ValidateUser checks a password against the stored hash. Unknown email and
// wrong password both come back as ErrUnauthorized so a caller cannot probe
// which emails exist.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (models.User, error) {
	const op = "service.ValidateUser"

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if ok := auth.CheckPasswordHash(user.PasswordHash, password); !ok {
		return models.User{}, ErrUnauthorized
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	const op = "service.Login"

	user, err := s.ValidateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return models.TokenPair{}, ErrUnauthorized
		}
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueSession(ctx, user)
}

// LoginOAuth resolves a third-party assertion to a local user and opens a
// session for it. The user record is created on first sight; an existing
// account with the same email is reused rather than duplicated.
func (s *AuthService) LoginOAuth(ctx context.Context, provider, providerID, email, displayName string, providerData []byte) (models.TokenPair, error) {
	const op = "service.LoginOAuth"

	user, err := s.linkOrCreate(ctx, provider, providerID, email, displayName, providerData)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) linkOrCreate(ctx context.Context, provider, providerID, email, displayName string, providerData []byte) (models.User, error) {
	const op = "service.linkOrCreate"

	account, err := s.storage.GetOAuthAccount(ctx, provider, providerID)
	if err == nil {
		return s.storage.GetUserByID(ctx, account.UserID)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		// OAuth-only account: empty password hash never validates.
		id, createErr := s.storage.CreateUser(ctx, displayName, email, "")
		if createErr != nil && !errors.Is(createErr, storage.ErrAlreadyExists) {
			return models.User{}, fmt.Errorf("%s: %w", op, createErr)
		}
		if createErr == nil {
			user, err = s.storage.GetUserByID(ctx, id)
		} else {
			// Lost a race with a concurrent registration for the
			// same email; that row wins.
			user, err = s.storage.GetUserByEmail(ctx, email)
		}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	err = s.storage.CreateOAuthAccount(ctx, models.OAuthAccount{
		Provider:     provider,
		ProviderID:   providerID,
		UserID:       user.ID,
		ProviderData: providerData,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		// A concurrent callback for the same (provider, providerID)
		// beat us to the insert. Re-read and return the winner.
		account, err := s.storage.GetOAuthAccount(ctx, provider, providerID)
		if err != nil {
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}
		return s.storage.GetUserByID(ctx, account.UserID)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// Refresh rotates a refresh token: each raw token is redeemable at most
// once. Every failure mode collapses to ErrUnauthorized or ErrForbidden
// with no further detail.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (models.TokenPair, error) {
	const op = "service.Refresh"

	claims, err := s.tokens.Verify(rawRefreshToken, auth.RefreshToken)
	if err != nil {
		return models.TokenPair{}, ErrUnauthorized
	}

	record, err := s.storage.GetActiveRefreshToken(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.TokenPair{}, ErrUnauthorized
		}
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if !auth.CheckTokenFingerprint(rawRefreshToken, record.TokenHash) {
		return models.TokenPair{}, ErrForbidden
	}

	if time.Now().After(record.ExpiresAt) {
		return models.TokenPair{}, ErrUnauthorized
	}

	// Revoke the consumed record before issuing its replacement. Losing
	// this compare-and-set means a concurrent refresh already rotated.
	won, err := s.storage.RevokeRefreshToken(ctx, record.ID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	if !won {
		return models.TokenPair{}, ErrUnauthorized
	}

	user, err := s.storage.GetUserByID(ctx, claims.UserID)
	if err != nil {
		// A vanished user behind a live record is an internal
		// inconsistency; the caller still only sees the uniform
		// rejection.
		if errors.Is(err, storage.ErrNotFound) {
			return models.TokenPair{}, ErrUnauthorized
		}
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueSession(ctx, user)
}

// Logout revokes every active refresh record for the token's user. It is
// deliberately safe to call with garbage: an unresolvable token means there
// is no session to tear down, which is already the desired end state.
func (s *AuthService) Logout(ctx context.Context, rawAccessToken string) error {
	const op = "service.Logout"

	claims, err := s.tokens.Verify(rawAccessToken, auth.AccessToken)
	if err != nil {
		return nil
	}

	if err := s.storage.RevokeAllRefreshTokens(ctx, claims.UserID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// VerifyAccess exposes access-token verification for the HTTP middleware.
func (s *AuthService) VerifyAccess(rawAccessToken string) (*auth.Claims, error) {
	return s.tokens.Verify(rawAccessToken, auth.AccessToken)
}

func (s *AuthService) issueSession(ctx context.Context, user models.User) (models.TokenPair, error) {
	const op = "service.issueSession"

	pair, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.saveRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

func (s *AuthService) saveRefreshToken(ctx context.Context, userID int64, rawToken string) error {
	const op = "service.saveRefreshToken"

	tokenID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	record := models.RefreshToken{
		ID:        tokenID,
		UserID:    userID,
		TokenHash: auth.FingerprintToken(rawToken),
		ExpiresAt: time.Now().Add(s.tokens.RefreshTTL()),
		Revoked:   false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.CreateRefreshToken(ctx, record); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
