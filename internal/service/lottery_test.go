package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery_backend/internal/models"
	"lottery_backend/internal/storage"
)

func TestTransactionsAdjustBalance(t *testing.T) {
	st := storage.NewMemoryStorage()
	ctx := context.Background()

	userID, err := st.CreateUser(ctx, "Alice", "a@x.com", "hash")
	require.NoError(t, err)

	svc := NewTransactionsService(st)

	_, err = svc.Create(ctx, models.Transaction{
		AmountCents: 10_00,
		Type:        models.TransactionDeposit,
		UserID:      userID,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.Transaction{
		AmountCents: 3_50,
		Type:        models.TransactionTicketPurchase,
		UserID:      userID,
	})
	require.NoError(t, err)

	user, err := st.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(6_50), user.BalanceCents)
}

func TestTicketsAndContributions(t *testing.T) {
	st := storage.NewMemoryStorage()
	ctx := context.Background()

	userID, err := st.CreateUser(ctx, "Alice", "a@x.com", "hash")
	require.NoError(t, err)

	groups := NewGroupsService(st)
	group, err := groups.Create(ctx, "office pool")
	require.NoError(t, err)
	require.NoError(t, groups.AddMember(ctx, group.ID, userID))

	tickets := NewTicketsService(st)
	ticket, err := tickets.Create(ctx, models.Ticket{
		TicketNumber: "12-34-56",
		CostCents:    2_00,
		LotteryID:    1,
		GroupID:      &group.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, ticket.ID)

	contribution, err := tickets.AddContribution(ctx, models.TicketContribution{
		TicketID:    ticket.ID,
		UserID:      userID,
		AmountCents: 1_00,
	})
	require.NoError(t, err)
	assert.NotZero(t, contribution.ID)

	_, err = tickets.AddContribution(ctx, models.TicketContribution{
		TicketID: ticket.ID + 100,
		UserID:   userID,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGroupsDuplicateMember(t *testing.T) {
	st := storage.NewMemoryStorage()
	ctx := context.Background()

	userID, err := st.CreateUser(ctx, "Alice", "a@x.com", "hash")
	require.NoError(t, err)

	groups := NewGroupsService(st)
	group, err := groups.Create(ctx, "office pool")
	require.NoError(t, err)

	require.NoError(t, groups.AddMember(ctx, group.ID, userID))
	err = groups.AddMember(ctx, group.ID, userID)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}
