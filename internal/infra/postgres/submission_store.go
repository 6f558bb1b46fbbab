package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"live-quiz-service/internal/domain"
)

// SubmissionStore persists finished submissions into the submissions table.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

func (s *SubmissionStore) Append(ctx context.Context, record domain.SubmissionRecord) error {
	answers, err := json.Marshal(record.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO submissions (user_id, name, quiz_id, answers, score, created_at) VALUES ($1, $2, $3, $4::jsonb, $5, $6)`,
		record.UserID, record.Name, record.QuizID, string(answers), record.Score, record.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Results(ctx context.Context, quizID string) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, name, score, jsonb_array_length(answers) FROM submissions WHERE quiz_id=$1 ORDER BY id`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []domain.QuizResult{}
	for rows.Next() {
		var r domain.QuizResult
		if err := rows.Scan(&r.UserID, &r.Name, &r.Score, &r.TotalQuestions); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
