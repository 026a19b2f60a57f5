package storage

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"

	"lottery_backend/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Storage interface {
	// Users
	CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error)
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, token models.RefreshToken) error
	GetActiveRefreshToken(ctx context.Context, userID int64) (models.RefreshToken, error)
	// RevokeRefreshToken reports whether this call flipped the revoked
	// flag. A false return with nil error means another caller won the
	// race for the same record.
	RevokeRefreshToken(ctx context.Context, tokenID uuid.UUID) (bool, error)
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error

	// OAuth accounts
	GetOAuthAccount(ctx context.Context, provider, providerID string) (models.OAuthAccount, error)
	CreateOAuthAccount(ctx context.Context, account models.OAuthAccount) error

	// Lottery domain
	CreateGroup(ctx context.Context, name string) (models.Group, error)
	AddGroupMember(ctx context.Context, groupID, userID int64) error
	CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error)
	AddTicketContribution(ctx context.Context, c models.TicketContribution) (models.TicketContribution, error)
	// CreateTransaction records the transaction and applies it to the
	// user's balance in one unit.
	CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error)

	Close()
}
