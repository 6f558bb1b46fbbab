package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/domain"
)

// ResultsSource reads persisted submissions for a quiz.
type ResultsSource interface {
	Results(ctx context.Context, quizID string) ([]domain.QuizResult, error)
}

type ResultsHandler struct {
	source ResultsSource
	log    logrus.FieldLogger
}

func NewResultsHandler(source ResultsSource, logger logrus.FieldLogger) *ResultsHandler {
	return &ResultsHandler{source: source, log: logger}
}

// ServeHTTP answers GET /quiz/result/{quizId}.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("quizId")
	if quizID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing quiz id"})
		return
	}

	results, err := h.source.Results(r.Context(), quizID)
	if err != nil {
		h.log.WithError(err).WithField("quiz", quizID).Error("load results failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}
	if results == nil {
		results = []domain.QuizResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
