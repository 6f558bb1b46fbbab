package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"live-quiz-service/internal/domain"
)

// SubmissionStore appends finished submissions to a Redis list per quiz.
// Layout: RPUSH quiz:{quizID}:submissions {json}
type SubmissionStore struct {
	client *redis.Client
}

func NewSubmissionStore(client *redis.Client) *SubmissionStore {
	return &SubmissionStore{client: client}
}

func (s *SubmissionStore) Append(ctx context.Context, record domain.SubmissionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(record.QuizID), data).Err(); err != nil {
		return fmt.Errorf("push submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Results(ctx context.Context, quizID string) ([]domain.QuizResult, error) {
	raw, err := s.client.LRange(ctx, s.key(quizID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	results := make([]domain.QuizResult, 0, len(raw))
	for _, item := range raw {
		var rec domain.SubmissionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode submission: %w", err)
		}
		results = append(results, domain.QuizResult{
			UserID:         rec.UserID,
			Name:           rec.Name,
			Score:          rec.Score,
			TotalQuestions: len(rec.Answers),
		})
	}
	return results, nil
}

func (s *SubmissionStore) key(quizID string) string {
	return "quiz:" + quizID + ":submissions"
}
