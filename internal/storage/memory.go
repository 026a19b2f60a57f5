package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"lottery_backend/internal/models"
)

// MemoryStorage implements Storage with in-process maps. It backs the test
// suite and local runs without Postgres, and enforces the same uniqueness
// and revocation semantics the SQL schema does.
type MemoryStorage struct {
	mu sync.Mutex

	users         map[int64]models.User
	usersByEmail  map[string]int64
	refreshTokens map[uuid.UUID]models.RefreshToken
	oauthAccounts map[string]models.OAuthAccount
	groups        map[int64]models.Group
	groupMembers  []models.GroupMember
	tickets       map[int64]models.Ticket
	contributions map[int64]models.TicketContribution
	transactions  map[int64]models.Transaction

	nextUserID         int64
	nextGroupID        int64
	nextTicketID       int64
	nextContributionID int64
	nextTransactionID  int64
	seq                int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:         make(map[int64]models.User),
		usersByEmail:  make(map[string]int64),
		refreshTokens: make(map[uuid.UUID]models.RefreshToken),
		oauthAccounts: make(map[string]models.OAuthAccount),
		groups:        make(map[int64]models.Group),
		tickets:       make(map[int64]models.Ticket),
		contributions: make(map[int64]models.TicketContribution),
		transactions:  make(map[int64]models.Transaction),
	}
}

func oauthKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

func (m *MemoryStorage) CreateUser(_ context.Context, name, email, passwordHash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Exact-match uniqueness, same as the TEXT UNIQUE column.
	if _, ok := m.usersByEmail[email]; ok {
		return 0, ErrAlreadyExists
	}

	m.nextUserID++
	user := models.User{
		ID:           m.nextUserID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[user.ID] = user
	m.usersByEmail[email] = user.ID

	return user.ID, nil
}

func (m *MemoryStorage) GetUserByID(_ context.Context, userID int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStorage) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.usersByEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return m.users[id], nil
}

func (m *MemoryStorage) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (m *MemoryStorage) CreateRefreshToken(_ context.Context, token models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.refreshTokens[token.ID]; ok {
		return ErrAlreadyExists
	}
	// seq disambiguates rows created within one clock tick, matching the
	// insertion-order tie-break of the SQL store.
	m.seq++
	token.CreatedAt = token.CreatedAt.Add(time.Duration(m.seq))
	m.refreshTokens[token.ID] = token

	return nil
}

func (m *MemoryStorage) GetActiveRefreshToken(_ context.Context, userID int64) (models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newest models.RefreshToken
	found := false
	for _, t := range m.refreshTokens {
		if t.UserID != userID || t.Revoked {
			continue
		}
		if !found || t.CreatedAt.After(newest.CreatedAt) {
			newest = t
			found = true
		}
	}
	if !found {
		return models.RefreshToken{}, ErrNotFound
	}

	return newest, nil
}

func (m *MemoryStorage) RevokeRefreshToken(_ context.Context, tokenID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.refreshTokens[tokenID]
	if !ok || token.Revoked {
		return false, nil
	}
	token.Revoked = true
	m.refreshTokens[tokenID] = token

	return true, nil
}

func (m *MemoryStorage) RevokeAllRefreshTokens(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, t := range m.refreshTokens {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			m.refreshTokens[id] = t
		}
	}
	return nil
}

func (m *MemoryStorage) GetOAuthAccount(_ context.Context, provider, providerID string) (models.OAuthAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.oauthAccounts[oauthKey(provider, providerID)]
	if !ok {
		return models.OAuthAccount{}, ErrNotFound
	}
	return account, nil
}

func (m *MemoryStorage) CreateOAuthAccount(_ context.Context, account models.OAuthAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := oauthKey(account.Provider, account.ProviderID)
	if _, ok := m.oauthAccounts[key]; ok {
		return ErrAlreadyExists
	}
	account.CreatedAt = time.Now().UTC()
	m.oauthAccounts[key] = account

	return nil
}

func (m *MemoryStorage) CreateGroup(_ context.Context, name string) (models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextGroupID++
	group := models.Group{ID: m.nextGroupID, Name: name, CreatedAt: time.Now().UTC()}
	m.groups[group.ID] = group

	return group, nil
}

func (m *MemoryStorage) AddGroupMember(_ context.Context, groupID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[groupID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	for _, gm := range m.groupMembers {
		if gm.GroupID == groupID && gm.UserID == userID {
			return ErrAlreadyExists
		}
	}
	m.groupMembers = append(m.groupMembers, models.GroupMember{GroupID: groupID, UserID: userID})

	return nil
}

func (m *MemoryStorage) CreateTicket(_ context.Context, ticket models.Ticket) (models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTicketID++
	ticket.ID = m.nextTicketID
	ticket.CreatedAt = time.Now().UTC()
	m.tickets[ticket.ID] = ticket

	return ticket, nil
}

func (m *MemoryStorage) AddTicketContribution(_ context.Context, c models.TicketContribution) (models.TicketContribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[c.TicketID]; !ok {
		return c, ErrNotFound
	}
	m.nextContributionID++
	c.ID = m.nextContributionID
	c.CreatedAt = time.Now().UTC()
	m.contributions[c.ID] = c

	return c, nil
}

func (m *MemoryStorage) CreateTransaction(_ context.Context, tr models.Transaction) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[tr.UserID]
	if !ok {
		return tr, ErrNotFound
	}

	m.nextTransactionID++
	tr.ID = m.nextTransactionID
	tr.CreatedAt = time.Now().UTC()
	m.transactions[tr.ID] = tr

	delta := tr.AmountCents
	if tr.Type.Debit() {
		delta = -delta
	}
	user.BalanceCents += delta
	m.users[user.ID] = user

	return tr, nil
}

func (m *MemoryStorage) Close() {}
