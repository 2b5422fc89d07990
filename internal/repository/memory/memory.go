// Package memory provides in-memory repository implementations used by tests.
package memory

import (
	"context"
	"sync"

	"account-portal/internal/domain"
	"account-portal/internal/repository"
)

type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
	qas    map[int64]domain.SecurityQA // keyed by user id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		users:  make(map[int64]domain.User),
		qas:    make(map[int64]domain.SecurityQA),
	}
}

func (r *UserRepository) Init(ctx context.Context) error { return nil }

func (r *UserRepository) Create(ctx context.Context, user *domain.User, qa *domain.SecurityQA) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user

	if qa != nil {
		qa.ID = user.ID
		qa.UserID = user.ID
		r.qas[user.ID] = *qa
	}
	return user.ID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		user := u
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetSecurityQA(ctx context.Context, userID int64) (*domain.SecurityQA, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if qa, ok := r.qas[userID]; ok {
		out := qa
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[userID] = u
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	delete(r.qas, id)
	return nil
}

type QuestionRepository struct {
	mu        sync.RWMutex
	nextID    int64
	questions []domain.Question
}

func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{nextID: 1}
}

func (r *QuestionRepository) Init(ctx context.Context) error { return nil }

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.questions)), nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	question.ID = r.nextID
	r.nextID++
	r.questions = append(r.questions, *question)
	return question.ID, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}
