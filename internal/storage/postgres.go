package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lottery_backend/internal/models"
)

const (
	usersTable               = "users"
	refreshTokensTable       = "refresh_tokens"
	oauthAccountsTable       = "oauth_accounts"
	groupsTable              = "groups"
	groupMembersTable        = "group_members"
	ticketsTable             = "tickets"
	ticketContributionsTable = "ticket_contributions"
	transactionsTable        = "transactions"
)

const uniqueViolation = "23505"

type PostgresStorage struct {
	db *pgxpool.Pool
}

func NewPostgresStorage(dbURL string) (*PostgresStorage, error) {
	const op = "storage.NewPostgresStorage"

	conn, err := pgxpool.Connect(context.Background(), dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PostgresStorage{
		db: conn,
	}, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (p *PostgresStorage) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	const op = "storage.CreateUser"

	var userID int64
	query := fmt.Sprintf("INSERT INTO %s(name, email, password_hash) VALUES ($1, $2, $3) RETURNING id;", usersTable)

	err := p.db.QueryRow(ctx, query, name, email, passwordHash).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return userID, nil
}

func (p *PostgresStorage) GetUserByID(ctx context.Context, userID int64) (models.User, error) {
	const op = "storage.GetUserByID"

	var user models.User
	query := fmt.Sprintf("SELECT id, name, email, password_hash, user_role, balance_cents, created_at FROM %s WHERE id=$1;", usersTable)

	err := p.db.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.BalanceCents, &user.CreatedAt,
	)
	if err != nil {
		return user, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return user, nil
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.GetUserByEmail"

	var user models.User
	query := fmt.Sprintf("SELECT id, name, email, password_hash, user_role, balance_cents, created_at FROM %s WHERE email=$1;", usersTable)

	err := p.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.BalanceCents, &user.CreatedAt,
	)
	if err != nil {
		return user, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return user, nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"

	var users []models.User
	query := fmt.Sprintf("SELECT id, name, email, user_role, balance_cents, created_at FROM %s ORDER BY id;", usersTable)

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User

		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.BalanceCents, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return users, nil
}

func (p *PostgresStorage) CreateRefreshToken(ctx context.Context, token models.RefreshToken) error {
	const op = "storage.CreateRefreshToken"

	query := fmt.Sprintf(`INSERT INTO %s(id, user_id, token_hash, expires_at, revoked, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`, refreshTokensTable)

	_, err := p.db.Exec(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.Revoked, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) GetActiveRefreshToken(ctx context.Context, userID int64) (models.RefreshToken, error) {
	const op = "storage.GetActiveRefreshToken"

	var token models.RefreshToken
	query := fmt.Sprintf(`SELECT
	id, user_id, token_hash, expires_at, revoked, created_at
	FROM %s WHERE user_id=$1 AND revoked=FALSE
	ORDER BY created_at DESC LIMIT 1;`, refreshTokensTable)

	err := p.db.QueryRow(ctx, query, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.Revoked,
		&token.CreatedAt,
	)
	if err != nil {
		return token, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return token, nil
}

// RevokeRefreshToken is the serialization point of refresh rotation: the
// WHERE revoked=FALSE clause makes sure only one of two concurrent callers
// sees a row flip.
func (p *PostgresStorage) RevokeRefreshToken(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	const op = "storage.RevokeRefreshToken"

	query := fmt.Sprintf(`UPDATE %s SET revoked = TRUE WHERE id = $1 AND revoked = FALSE`, refreshTokensTable)

	tag, err := p.db.Exec(ctx, query, tokenID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() == 1, nil
}

func (p *PostgresStorage) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	const op = "storage.RevokeAllRefreshTokens"

	query := fmt.Sprintf("UPDATE %s SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE", refreshTokensTable)
	if _, err := p.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *PostgresStorage) GetOAuthAccount(ctx context.Context, provider, providerID string) (models.OAuthAccount, error) {
	const op = "storage.GetOAuthAccount"

	var account models.OAuthAccount
	query := fmt.Sprintf("SELECT provider, provider_id, user_id, provider_data, created_at FROM %s WHERE provider=$1 AND provider_id=$2;", oauthAccountsTable)

	err := p.db.QueryRow(ctx, query, provider, providerID).Scan(
		&account.Provider, &account.ProviderID, &account.UserID, &account.ProviderData, &account.CreatedAt,
	)
	if err != nil {
		return account, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return account, nil
}

func (p *PostgresStorage) CreateOAuthAccount(ctx context.Context, account models.OAuthAccount) error {
	const op = "storage.CreateOAuthAccount"

	query := fmt.Sprintf("INSERT INTO %s(provider, provider_id, user_id, provider_data) VALUES ($1, $2, $3, $4)", oauthAccountsTable)

	_, err := p.db.Exec(ctx, query, account.Provider, account.ProviderID, account.UserID, account.ProviderData)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

func (p *PostgresStorage) CreateGroup(ctx context.Context, name string) (models.Group, error) {
	const op = "storage.CreateGroup"

	var group models.Group
	query := fmt.Sprintf("INSERT INTO %s(name) VALUES ($1) RETURNING id, name, created_at;", groupsTable)

	err := p.db.QueryRow(ctx, query, name).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		return group, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return group, nil
}

func (p *PostgresStorage) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	const op = "storage.AddGroupMember"

	query := fmt.Sprintf("INSERT INTO %s(group_id, user_id) VALUES ($1, $2)", groupMembersTable)

	if _, err := p.db.Exec(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (p *PostgresStorage) CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	const op = "storage.CreateTicket"

	query := fmt.Sprintf(`INSERT INTO %s(ticket_number, cost_cents, lottery_id, user_id, group_id, winning_amount_cents)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at;`, ticketsTable)

	err := p.db.QueryRow(ctx, query,
		ticket.TicketNumber, ticket.CostCents, ticket.LotteryID, ticket.UserID, ticket.GroupID, ticket.WinningAmountCents,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return ticket, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return ticket, nil
}

func (p *PostgresStorage) AddTicketContribution(ctx context.Context, c models.TicketContribution) (models.TicketContribution, error) {
	const op = "storage.AddTicketContribution"

	query := fmt.Sprintf(`INSERT INTO %s(ticket_id, user_id, amount_cents)
	VALUES ($1, $2, $3) RETURNING id, created_at;`, ticketContributionsTable)

	err := p.db.QueryRow(ctx, query, c.TicketID, c.UserID, c.AmountCents).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return c, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return c, nil
}

func (p *PostgresStorage) CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error) {
	const op = "storage.CreateTransaction"

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return tr, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	insert := fmt.Sprintf(`INSERT INTO %s(amount_cents, transaction_type, user_id, ticket_id)
	VALUES ($1, $2, $3, $4) RETURNING id, created_at;`, transactionsTable)

	err = tx.QueryRow(ctx, insert, tr.AmountCents, tr.Type, tr.UserID, tr.TicketID).Scan(&tr.ID, &tr.CreatedAt)
	if err != nil {
		return tr, fmt.Errorf("%s: %w", op, mapError(err))
	}

	delta := tr.AmountCents
	if tr.Type.Debit() {
		delta = -delta
	}

	update := fmt.Sprintf("UPDATE %s SET balance_cents = balance_cents + $1 WHERE id = $2", usersTable)
	if _, err := tx.Exec(ctx, update, delta, tr.UserID); err != nil {
		return tr, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return tr, fmt.Errorf("%s: %w", op, err)
	}

	return tr, nil
}

func (p *PostgresStorage) Close() {
	p.db.Close()
}
