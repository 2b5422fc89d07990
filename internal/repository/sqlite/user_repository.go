package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"account-portal/internal/domain"
	"account-portal/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL
);
`

const createSecurityQATable = `
CREATE TABLE IF NOT EXISTS security_qa (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	first_question TEXT NOT NULL,
	second_question TEXT NOT NULL,
	first_answer_hash TEXT NOT NULL,
	second_answer_hash TEXT NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createSecurityQATable); err != nil {
		return fmt.Errorf("create security_qa table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, qa *domain.SecurityQA) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO users (email, username, password_hash, role)
VALUES (?, ?, ?, ?)`,
		user.Email,
		user.Username,
		user.PasswordHash,
		string(user.Role),
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id

	if qa != nil {
		qa.UserID = id
		res, err := tx.ExecContext(ctx, `
INSERT INTO security_qa (user_id, first_question, second_question, first_answer_hash, second_answer_hash)
VALUES (?, ?, ?, ?, ?)`,
			qa.UserID,
			qa.FirstQuestion,
			qa.SecondQuestion,
			qa.FirstAnswerHash,
			qa.SecondAnswerHash,
		)
		if err != nil {
			return 0, fmt.Errorf("insert security qa: %w", err)
		}
		qaID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("security qa last insert id: %w", err)
		}
		qa.ID = qaID
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, username, password_hash, role
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, username, password_hash, role
FROM users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, username, password_hash, role
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetSecurityQA(ctx context.Context, userID int64) (*domain.SecurityQA, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, first_question, second_question, first_answer_hash, second_answer_hash
FROM security_qa
WHERE user_id = ?`,
		userID,
	)

	var qa domain.SecurityQA
	if err := row.Scan(
		&qa.ID,
		&qa.UserID,
		&qa.FirstQuestion,
		&qa.SecondQuestion,
		&qa.FirstAnswerHash,
		&qa.SecondAnswerHash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan security qa: %w", err)
	}
	return &qa, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, email, username, password_hash, role
FROM users
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var role string
		if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &role); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		user.Role = domain.Role(role)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Delete removes the user's SecurityQA row and then the user itself in a
// single transaction, the app-level equivalent of a cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM security_qa WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete security qa: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	var role string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&role,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = domain.Role(role)
	return &user, nil
}
