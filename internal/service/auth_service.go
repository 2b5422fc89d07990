package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"account-portal/internal/auth"
	"account-portal/internal/domain"
	"account-portal/internal/repository"
	"account-portal/internal/validate"
)

var (
	// ErrEmailNotFound indicates no account exists for the submitted email.
	ErrEmailNotFound = errors.New(validate.MsgEmailNotFound)
	// ErrIncorrectPassword indicates the account exists but the password did not verify.
	ErrIncorrectPassword = errors.New(validate.MsgPasswordIncorrect)
)

// AuthService orchestrates registration, login and the two password-change
// workflows. Validation outcomes are returned as a field→message map; an
// empty map means the operation succeeded and any store writes were made.
type AuthService interface {
	Register(ctx context.Context, form validate.RegisterForm) (validate.Errors, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	ForgotPassword(ctx context.Context, form validate.ForgotPasswordForm) (validate.Errors, error)
	ResetPassword(ctx context.Context, user *domain.User, oldPassword, newPassword, confirmPassword string) (validate.Errors, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	Questions(ctx context.Context) ([]domain.Question, error)
}

type authService struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	hasher    auth.Hasher
}

func NewAuthService(users repository.UserRepository, questions repository.QuestionRepository, hasher auth.Hasher) AuthService {
	return &authService{
		users:     users,
		questions: questions,
		hasher:    hasher,
	}
}

// Register validates the submission and, when clean, persists the user with
// hashed password and answers plus its SecurityQA as one unit. The new
// account gets the USER role and no session is established.
func (s *authService) Register(ctx context.Context, form validate.RegisterForm) (validate.Errors, error) {
	normalizeRegisterForm(&form)

	taken, err := s.emailTaken(ctx, form.Email)
	if err != nil {
		return nil, err
	}

	errs := validate.Register(form, taken)
	if len(errs) > 0 {
		return errs, nil
	}

	passwordHash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, err
	}
	firstAnswerHash, err := s.hasher.Hash(form.FirstAnswer)
	if err != nil {
		return nil, err
	}
	secondAnswerHash, err := s.hasher.Hash(form.SecondAnswer)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        form.Email,
		Username:     form.Username,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
	}
	qa := &domain.SecurityQA{
		FirstQuestion:    form.FirstQuestion,
		SecondQuestion:   form.SecondQuestion,
		FirstAnswerHash:  firstAnswerHash,
		SecondAnswerHash: secondAnswerHash,
	}

	if _, err := s.users.Create(ctx, user, qa); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return validate.Errors{}, nil
}

// Login looks the account up by email and verifies the password against the
// stored hash. The two failure modes are distinct so the form can tell an
// unknown email from a wrong password.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

// ForgotPassword runs the full recovery validation (account exists, is not
// the admin, questions and answers match, new password acceptable) and on
// success persists the new password hash. No session is established; the
// recovered user still has to log in.
func (s *authService) ForgotPassword(ctx context.Context, form validate.ForgotPasswordForm) (validate.Errors, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.FirstAnswer = strings.TrimSpace(form.FirstAnswer)
	form.SecondAnswer = strings.TrimSpace(form.SecondAnswer)

	var user *domain.User
	var current *domain.SecurityQA

	u, err := s.users.GetByEmail(ctx, form.Email)
	switch {
	case err == nil:
		user = u
	case errors.Is(err, repository.ErrNotFound):
		// validation reports the missing email
	default:
		return nil, err
	}

	if user != nil {
		qa, err := s.users.GetSecurityQA(ctx, user.ID)
		switch {
		case err == nil:
			current = qa
		case errors.Is(err, repository.ErrNotFound):
		default:
			return nil, err
		}
	}

	errs := validate.ForgotPassword(s.hasher, user, current, form)
	if len(errs) > 0 {
		return errs, nil
	}

	passwordHash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	return validate.Errors{}, nil
}

// ResetPassword changes the password of an already-authenticated user. The
// caller is responsible for the session check; by the time this runs a user
// is known.
func (s *authService) ResetPassword(ctx context.Context, user *domain.User, oldPassword, newPassword, confirmPassword string) (validate.Errors, error) {
	errs := validate.ResetPassword(s.hasher, user, oldPassword, newPassword, confirmPassword)
	if len(errs) > 0 {
		return errs, nil
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	return validate.Errors{}, nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *authService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.List(ctx)
}

func (s *authService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func normalizeRegisterForm(form *validate.RegisterForm) {
	form.Email = strings.TrimSpace(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	form.FirstAnswer = strings.TrimSpace(form.FirstAnswer)
	form.SecondAnswer = strings.TrimSpace(form.SecondAnswer)
}
