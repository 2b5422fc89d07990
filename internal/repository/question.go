package repository

import (
	"context"

	"account-portal/internal/domain"
)

// QuestionRepository defines persistence operations for the question catalog.
type QuestionRepository interface {
	Init(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, question *domain.Question) (int64, error)
	List(ctx context.Context) ([]domain.Question, error)
}
