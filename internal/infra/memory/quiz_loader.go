package memory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"live-quiz-service/internal/domain"
)

// StaticQuizLoader serves questions from an in-memory set of quizzes (useful for tests/demos).
type StaticQuizLoader struct {
	questions map[string]domain.Question
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	questions := make(map[string]domain.Question)
	for quizID, quiz := range quizzes {
		for _, q := range quiz.Questions {
			q.QuizID = quizID
			questions[q.ID] = q
		}
	}
	return &StaticQuizLoader{questions: questions}
}

func (l *StaticQuizLoader) LoadQuestion(_ context.Context, questionID string) (domain.Question, error) {
	if q, ok := l.questions[questionID]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

// LoadQuizFile reads a YAML document holding a list of quizzes.
func LoadQuizFile(path string) (map[string]domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	var doc struct {
		Quizzes []domain.Quiz `yaml:"quizzes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	quizzes := make(map[string]domain.Quiz, len(doc.Quizzes))
	for _, quiz := range doc.Quizzes {
		if quiz.ID == "" {
			return nil, fmt.Errorf("parse quiz file: quiz without id")
		}
		quizzes[quiz.ID] = quiz
	}
	return quizzes, nil
}
