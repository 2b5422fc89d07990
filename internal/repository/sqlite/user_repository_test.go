package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-portal/internal/domain"
	"account-portal/internal/repository"
)

func newTestRepos(t *testing.T) (repository.UserRepository, repository.QuestionRepository) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := NewUserRepository(db)
	questions := NewQuestionRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, questions.Init(context.Background()))
	return users, questions
}

func newUser(email, username string) (*domain.User, *domain.SecurityQA) {
	return &domain.User{
			Email:        email,
			Username:     username,
			PasswordHash: "hash",
			Role:         domain.RoleUser,
		}, &domain.SecurityQA{
			FirstQuestion:    "What your pets name?",
			SecondQuestion:   "What is you favorite color?",
			FirstAnswerHash:  "h1",
			SecondAnswerHash: "h2",
		}
}

func TestCreateAndLookups(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestRepos(t)

	user, qa := newUser("jane@example.com", "jane")
	id, err := users.Create(ctx, user, qa)
	require.NoError(t, err)
	require.Positive(t, id)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, id, qa.UserID)

	byEmail, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane", byEmail.Username)
	assert.Equal(t, domain.RoleUser, byEmail.Role)

	byUsername, err := users.GetByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, byUsername.ID)

	byID, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", byID.Email)

	stored, err := users.GetSecurityQA(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "What your pets name?", stored.FirstQuestion)
}

func TestCreateWithoutQA(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestRepos(t)

	admin := &domain.User{Email: "admin@admin.com", Username: "admin", PasswordHash: "hash", Role: domain.RoleAdmin}
	id, err := users.Create(ctx, admin, nil)
	require.NoError(t, err)

	_, err = users.GetSecurityQA(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLookupMissing(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestRepos(t)

	_, err := users.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = users.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// the unique constraints backstop the service-level lookup-before-insert
func TestUniqueEmailConstraint(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestRepos(t)

	user, qa := newUser("jane@example.com", "jane")
	_, err := users.Create(ctx, user, qa)
	require.NoError(t, err)

	dup, dupQA := newUser("jane@example.com", "janet")
	_, err = users.Create(ctx, dup, dupQA)
	assert.Error(t, err)

	// the failed insert must not leave a partial row behind
	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestRepos(t)

	user, qa := newUser("jane@example.com", "jane")
	id, err := users.Create(ctx, user, qa)
	require.NoError(t, err)

	require.NoError(t, users.UpdatePassword(ctx, id, "newhash"))

	got, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)

	assert.ErrorIs(t, users.UpdatePassword(ctx, 99, "x"), repository.ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestRepos(t)

	user, qa := newUser("jane@example.com", "jane")
	id, err := users.Create(ctx, user, qa)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, id))

	_, err = users.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetSecurityQA(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, users.Delete(ctx, id), repository.ErrNotFound)
}

func TestQuestionCatalog(t *testing.T) {
	ctx := context.Background()
	_, questions := newTestRepos(t)

	count, err := questions.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	for _, text := range []string{"q1", "q2"} {
		_, err := questions.Create(ctx, &domain.Question{Text: text})
		require.NoError(t, err)
	}

	count, err = questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := questions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "q1", list[0].Text)
	assert.Equal(t, "q2", list[1].Text)
}
