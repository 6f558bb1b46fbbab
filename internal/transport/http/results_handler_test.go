package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
)

type failingSource struct{}

func (failingSource) Results(context.Context, string) ([]domain.QuizResult, error) {
	return nil, errors.New("db down")
}

func serveResults(source ResultsSource, path string) *httptest.ResponseRecorder {
	logger, _ := test.NewNullLogger()
	mux := http.NewServeMux()
	mux.Handle("GET /quiz/result/{quizId}", NewResultsHandler(source, logger))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestResultsHandlerReturnsSubmissions(t *testing.T) {
	subs := memory.NewSubmissionStore()
	require.NoError(t, subs.Append(context.Background(), domain.SubmissionRecord{
		UserID: "u1",
		Name:   "Alice",
		QuizID: "quiz-1",
		Answers: []domain.AnswerRecord{
			{QuestionID: "q1", SelectedOption: "o1", Correct: true},
			{QuestionID: "q2", SelectedOption: "a"},
		},
		Score:       1,
		SubmittedAt: time.Now(),
	}))

	rec := serveResults(subs, "/quiz/result/quiz-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []domain.QuizResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, domain.QuizResult{UserID: "u1", Name: "Alice", Score: 1, TotalQuestions: 2}, body.Results[0])
}

func TestResultsHandlerEmptyQuiz(t *testing.T) {
	rec := serveResults(memory.NewSubmissionStore(), "/quiz/result/nothing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestResultsHandlerStoreError(t *testing.T) {
	rec := serveResults(failingSource{}, "/quiz/result/quiz-1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
