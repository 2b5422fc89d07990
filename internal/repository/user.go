package repository

import (
	"context"
	"errors"

	"account-portal/internal/domain"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for User records and their
// owned SecurityQA rows.
type UserRepository interface {
	Init(ctx context.Context) error

	// Create persists the user and, when qa is non-nil, its SecurityQA as
	// one unit. The admin account carries no QA row.
	Create(ctx context.Context, user *domain.User, qa *domain.SecurityQA) (int64, error)

	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetSecurityQA(ctx context.Context, userID int64) (*domain.SecurityQA, error)

	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	List(ctx context.Context) ([]domain.User, error)

	// Delete removes the user and its SecurityQA row in one transaction.
	Delete(ctx context.Context, id int64) error
}
