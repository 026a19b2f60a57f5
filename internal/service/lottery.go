package service

import (
	"context"
	"fmt"

	"lottery_backend/internal/models"
	"lottery_backend/internal/storage"
)

type GroupsService struct {
	storage storage.Storage
}

func NewGroupsService(st storage.Storage) *GroupsService {
	return &GroupsService{storage: st}
}

func (s *GroupsService) Create(ctx context.Context, name string) (models.Group, error) {
	const op = "service.GroupsCreate"

	group, err := s.storage.CreateGroup(ctx, name)
	if err != nil {
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}
	return group, nil
}

func (s *GroupsService) AddMember(ctx context.Context, groupID, userID int64) error {
	const op = "service.GroupsAddMember"

	if err := s.storage.AddGroupMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type TicketsService struct {
	storage storage.Storage
}

func NewTicketsService(st storage.Storage) *TicketsService {
	return &TicketsService{storage: st}
}

func (s *TicketsService) Create(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	const op = "service.TicketsCreate"

	created, err := s.storage.CreateTicket(ctx, ticket)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *TicketsService) AddContribution(ctx context.Context, c models.TicketContribution) (models.TicketContribution, error) {
	const op = "service.TicketsAddContribution"

	created, err := s.storage.AddTicketContribution(ctx, c)
	if err != nil {
		return models.TicketContribution{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

type TransactionsService struct {
	storage storage.Storage
}

func NewTransactionsService(st storage.Storage) *TransactionsService {
	return &TransactionsService{storage: st}
}

// Create records the transaction and applies its amount to the user's
// balance; debits are negative, credits positive.
func (s *TransactionsService) Create(ctx context.Context, tr models.Transaction) (models.Transaction, error) {
	const op = "service.TransactionsCreate"

	created, err := s.storage.CreateTransaction(ctx, tr)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}
