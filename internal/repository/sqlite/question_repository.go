package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"account-portal/internal/domain"
	"account-portal/internal/repository"
)

const createQuestionsTable = `
CREATE TABLE IF NOT EXISTS questions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL
);
`

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createQuestionsTable); err != nil {
		return fmt.Errorf("create questions table: %w", err)
	}
	return nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO questions (question) VALUES (?)`, question.Text)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("question last insert id: %w", err)
	}
	question.ID = id
	return id, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, question FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
