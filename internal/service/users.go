package service

import (
	"context"
	"fmt"

	"lottery_backend/internal/models"
	"lottery_backend/internal/storage"
)

type UsersService struct {
	storage storage.Storage
}

func NewUsersService(st storage.Storage) *UsersService {
	return &UsersService{storage: st}
}

func (s *UsersService) GetByID(ctx context.Context, userID int64) (models.User, error) {
	const op = "service.UsersGetByID"

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *UsersService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "service.UsersGetByEmail"

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	const op = "service.UsersList"

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
