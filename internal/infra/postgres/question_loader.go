package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"live-quiz-service/internal/domain"
)

// QuestionLoader resolves questions stored inside the quizzes JSONB documents.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

const loadQuestionSQL = `
SELECT q.id, elem
FROM quizzes q, jsonb_array_elements(q.data->'questions') elem
WHERE elem->>'id' = $1
LIMIT 1`

func (l *QuestionLoader) LoadQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	var (
		quizID string
		raw    []byte
	)
	err := l.pool.QueryRow(ctx, loadQuestionSQL, questionID).Scan(&quizID, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question: %w", err)
	}
	q.QuizID = quizID
	return q, nil
}
