package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Empty for accounts created through an OAuth provider. Such accounts
	// must never pass password validation.
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	UserID       int64
	PasswordHash string
}

// TokenPair is transient: handed to the caller on login/refresh, never
// persisted as-is.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken rows are append-only. Rotation and logout only flip Revoked;
// rows are kept as an audit trail.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// OAuthAccount links an external identity to a local user.
// (Provider, ProviderID) is unique.
type OAuthAccount struct {
	Provider     string
	ProviderID   string
	UserID       int64
	ProviderData []byte
	CreatedAt    time.Time
}

type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupMember struct {
	GroupID int64 `json:"group_id"`
	UserID  int64 `json:"user_id"`
}

type Ticket struct {
	ID                 int64     `json:"id"`
	TicketNumber       string    `json:"ticket_number"`
	CostCents          int64     `json:"cost_cents"`
	LotteryID          int64     `json:"lottery_id"`
	UserID             *int64    `json:"user_id,omitempty"`
	GroupID            *int64    `json:"group_id,omitempty"`
	WinningAmountCents *int64    `json:"winning_amount_cents,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type TicketContribution struct {
	ID          int64     `json:"id"`
	TicketID    int64     `json:"ticket_id"`
	UserID      int64     `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type TransactionType string

const (
	TransactionDeposit        TransactionType = "DEPOSIT"
	TransactionWithdrawal     TransactionType = "WITHDRAWAL"
	TransactionTicketPurchase TransactionType = "TICKET_PURCHASE"
	TransactionWinnings       TransactionType = "WINNINGS"
)

type Transaction struct {
	ID          int64           `json:"id"`
	AmountCents int64           `json:"amount_cents"`
	Type        TransactionType `json:"transaction_type"`
	UserID      int64           `json:"user_id"`
	TicketID    *int64          `json:"ticket_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Debit reports whether the transaction type reduces the user's balance.
func (t TransactionType) Debit() bool {
	return t == TransactionWithdrawal || t == TransactionTicketPurchase
}
