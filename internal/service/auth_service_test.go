package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-portal/internal/auth"
	"account-portal/internal/domain"
	"account-portal/internal/repository/memory"
	"account-portal/internal/validate"
)

func newTestAuthService(t *testing.T) (AuthService, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	questions := memory.NewQuestionRepository()
	return NewAuthService(users, questions, auth.NewBcryptHasher(4)), users
}

func registerForm() validate.RegisterForm {
	return validate.RegisterForm{
		Email:           "jane@example.com",
		Username:        "jane",
		Password:        "abc123",
		ConfirmPassword: "abc123",
		FirstQuestion:   "What your pets name?",
		FirstAnswer:     "fido",
		SecondQuestion:  "What is you favorite color?",
		SecondAnswer:    "blue",
	}
}

func TestRegisterPersistsHashedCredentials(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)

	errs, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)
	require.Empty(t, errs)

	user, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "abc123", user.PasswordHash)

	qa, err := users.GetSecurityQA(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "What your pets name?", qa.FirstQuestion)
	assert.NotEqual(t, "fido", qa.FirstAnswerHash)
	assert.NotEqual(t, "blue", qa.SecondAnswerHash)
}

func TestRegisterTrimsFields(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)

	form := registerForm()
	form.Email = "  jane@example.com "
	form.Username = " jane "

	errs, err := svc.Register(ctx, form)
	require.NoError(t, err)
	require.Empty(t, errs)

	user, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)

	errs, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)
	require.Empty(t, errs)

	first, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	second := registerForm()
	second.Username = "janet"
	errs, err = svc.Register(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, validate.MsgEmailTaken, errs[validate.FieldEmail])

	// first record unaffected
	again, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	errs, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)
	require.Empty(t, errs)

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(ctx, "jane@example.com", "abc123")
		require.NoError(t, err)
		assert.Equal(t, "jane", user.Username)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "abc123")
		assert.ErrorIs(t, err, ErrEmailNotFound)
	})

	// a wrong password on a known account must not report a missing email
	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "jane@example.com", "abc124")
		assert.ErrorIs(t, err, ErrIncorrectPassword)
		assert.NotErrorIs(t, err, ErrEmailNotFound)
	})
}

func TestForgotPasswordAdminDenied(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	questions := memory.NewQuestionRepository()
	hasher := auth.NewBcryptHasher(4)
	svc := NewAuthService(users, questions, hasher)

	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	_, err = users.Create(ctx, &domain.User{
		Email:        "admin@admin.com",
		Username:     "admin",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}, nil)
	require.NoError(t, err)

	errs, err := svc.ForgotPassword(ctx, validate.ForgotPasswordForm{
		Email:           "admin@admin.com",
		Password:        "newpass1",
		ConfirmPassword: "newpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, validate.MsgAdminRecoveryDenied, errs[validate.FieldEmail])

	// password untouched
	admin, err := users.GetByEmail(ctx, "admin@admin.com")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("admin123", admin.PasswordHash))
}

func TestRecoveryEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	errs, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)
	require.Empty(t, errs)

	errs, err = svc.ForgotPassword(ctx, validate.ForgotPasswordForm{
		Email:           "jane@example.com",
		Password:        "xyz789",
		ConfirmPassword: "xyz789",
		FirstQuestion:   "What your pets name?",
		FirstAnswer:     "fido",
		SecondQuestion:  "What is you favorite color?",
		SecondAnswer:    "blue",
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	user, err := svc.Login(ctx, "jane@example.com", "xyz789")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)

	_, err = svc.Login(ctx, "jane@example.com", "abc123")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)

	errs, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)
	require.Empty(t, errs)

	user, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	errs, err = svc.ResetPassword(ctx, user, "abc123", "xyz789", "xyz789")
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = svc.Login(ctx, "jane@example.com", "xyz789")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "jane@example.com", "abc123")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}
