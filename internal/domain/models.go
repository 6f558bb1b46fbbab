package domain

import "time"

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"isCorrect" yaml:"isCorrect"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	QuizID  string   `json:"quizId,omitempty" yaml:"-"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
	Points  int      `json:"points" yaml:"points"` // defaults to 1 if zero
}

// CorrectOption returns the id of the first option flagged correct.
func (q Question) CorrectOption() (string, bool) {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt.ID, true
		}
	}
	return "", false
}

// PointValue returns the points awarded for a correct answer.
func (q Question) PointValue() int {
	if q.Points == 0 {
		return 1
	}
	return q.Points
}

// Quiz is a collection of questions.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// AnswerRecord is one accepted answer of a participant.
type AnswerRecord struct {
	QuestionID     string `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
	Correct        bool   `json:"correct"`
}

// SubmissionRecord is the durable record written for a participant when the
// leaderboard is shown.
type SubmissionRecord struct {
	UserID      string         `json:"userId"`
	Name        string         `json:"name"`
	QuizID      string         `json:"quizId"`
	Answers     []AnswerRecord `json:"answers"`
	Score       int            `json:"score"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// LeaderboardEntry is a snapshot-friendly view of a participant.
type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// ResponseStat is the live count for one option of the active question.
type ResponseStat struct {
	OptionID   string `json:"optionId"`
	OptionText string `json:"optionText"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// QuizResult summarizes a persisted submission for the results endpoint.
type QuizResult struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
}
