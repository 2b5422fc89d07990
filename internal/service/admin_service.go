package service

import (
	"context"
	"errors"
	"fmt"

	"account-portal/internal/domain"
	"account-portal/internal/repository"
)

const deleteAction = "delete"

var (
	// ErrUserNotFound indicates the targeted user id does not exist.
	ErrUserNotFound = errors.New("User not found")
	// ErrUnknownAction indicates the submitted admin action is not recognized.
	ErrUnknownAction = errors.New("Could not delete user")
)

// AdminService exposes the administrator operations on the user list.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ManageUser(ctx context.Context, id int64, action string) error
}

type adminService struct {
	users repository.UserRepository
}

func NewAdminService(users repository.UserRepository) AdminService {
	return &adminService{users: users}
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ManageUser applies an action to a user. Only "delete" is recognized; the
// existence check runs first so an unknown id reports as not found rather
// than as a bad action. Deleting a user removes its SecurityQA row with it.
func (s *adminService) ManageUser(ctx context.Context, id int64, action string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if action != deleteAction {
		return ErrUnknownAction
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
