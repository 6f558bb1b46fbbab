package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"live-quiz-service/internal/domain"
)

func TestSubmissionStoreAppendsAndReads(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSubmissionStore(newClient(mr))
	ctx := context.Background()
	rec := domain.SubmissionRecord{
		UserID: "u1",
		Name:   "Ann",
		QuizID: "quiz-1",
		Answers: []domain.AnswerRecord{
			{QuestionID: "q1", SelectedOption: "o1", Correct: true},
			{QuestionID: "q2", SelectedOption: "b", Correct: false},
		},
		Score: 1,
	}
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	items, err := mr.List("quiz:quiz-1:submissions")
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one list entry, got %v (%v)", items, err)
	}

	results, err := store.Results(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	want := domain.QuizResult{UserID: "u1", Name: "Ann", Score: 1, TotalQuestions: 2}
	if len(results) != 1 || results[0] != want {
		t.Fatalf("unexpected results %+v", results)
	}
}
