package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"account-portal/internal/auth"
	"account-portal/internal/domain"
	"account-portal/internal/repository"
)

// the catalog offered when the question pool is empty at first startup
var seedQuestions = []string{
	"What your pets name?",
	"What is you favorite color?",
	"What's the name of the high school you attended?",
	"What is your lucky number?",
	"What's your mother's maiden name?",
}

// AdminAccount holds the bootstrap credentials for the administrator.
type AdminAccount struct {
	Email    string
	Username string
	Password string
}

// Seeder performs the one-time startup seeding: the question catalog and the
// admin account. Running it again when the records already exist changes
// nothing.
type Seeder struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	hasher    auth.Hasher
	admin     AdminAccount
	logger    *logrus.Logger
}

func NewSeeder(users repository.UserRepository, questions repository.QuestionRepository, hasher auth.Hasher, admin AdminAccount, logger *logrus.Logger) *Seeder {
	return &Seeder{
		users:     users,
		questions: questions,
		hasher:    hasher,
		admin:     admin,
		logger:    logger,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedQuestions(ctx); err != nil {
		return err
	}
	return s.seedAdmin(ctx)
}

func (s *Seeder) seedQuestions(ctx context.Context) error {
	count, err := s.questions.Count(ctx)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, text := range seedQuestions {
		if _, err := s.questions.Create(ctx, &domain.Question{Text: text}); err != nil {
			return fmt.Errorf("seed question: %w", err)
		}
	}
	s.logger.Infof("seeded %d security questions", len(seedQuestions))
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	_, err := s.users.GetByUsername(ctx, s.admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	passwordHash, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        s.admin.Email,
		Username:     s.admin.Username,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
	}
	if _, err := s.users.Create(ctx, admin, nil); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Infof("created admin account %s", s.admin.Email)
	return nil
}
