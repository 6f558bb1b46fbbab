package memory

import (
	"context"
	"testing"

	"live-quiz-service/internal/domain"
)

func TestSubmissionStoreResults(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()

	_ = store.Append(ctx, domain.SubmissionRecord{
		UserID: "u1", Name: "Ann", QuizID: "quiz-1", Score: 3,
		Answers: []domain.AnswerRecord{{QuestionID: "q1", SelectedOption: "o1", Correct: true}},
	})
	_ = store.Append(ctx, domain.SubmissionRecord{UserID: "u2", Name: "Bob", QuizID: "quiz-2"})

	results, err := store.Results(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].UserID != "u1" || results[0].Score != 3 || results[0].TotalQuestions != 1 {
		t.Fatalf("unexpected result %+v", results[0])
	}
}
