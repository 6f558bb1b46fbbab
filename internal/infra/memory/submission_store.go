package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/domain"
)

// SubmissionStore keeps persisted submissions in process memory.
type SubmissionStore struct {
	mu      sync.RWMutex
	records []domain.SubmissionRecord
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{}
}

func (s *SubmissionStore) Append(_ context.Context, record domain.SubmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of every stored record for quizID.
func (s *SubmissionStore) Records(quizID string) []domain.SubmissionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SubmissionRecord
	for _, r := range s.records {
		if r.QuizID == quizID {
			out = append(out, r)
		}
	}
	return out
}

func (s *SubmissionStore) Results(_ context.Context, quizID string) ([]domain.QuizResult, error) {
	records := s.Records(quizID)
	results := make([]domain.QuizResult, 0, len(records))
	for _, r := range records {
		results = append(results, domain.QuizResult{
			UserID:         r.UserID,
			Name:           r.Name,
			Score:          r.Score,
			TotalQuestions: len(r.Answers),
		})
	}
	return results, nil
}
