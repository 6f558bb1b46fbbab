package app

import (
	"time"

	"live-quiz-service/internal/domain"
)

// Inbound message types.
const (
	TypeCreateRoom      = "createRoom"
	TypeJoinRoom        = "joinRoom"
	TypeNextQuestion    = "nextQuestion"
	TypeSubmitAnswer    = "submitAnswer"
	TypeShowLeaderboard = "showLeaderboard"
	TypeEndQuiz         = "endQuiz"
)

// Outbound message types.
const (
	TypeRoomCreated       = "roomCreated"
	TypeJoinedRoom        = "joinedRoom"
	TypeNewQuestion       = "newQuestion"
	TypeAnswerResult      = "answerResult"
	TypeResponseUpdate    = "responseUpdate"
	TypeParticipantUpdate = "participantUpdate"
	TypeLeaderboard       = "leaderboard"
	TypeTimeUp            = "timeUp"
	TypeRoomClosed        = "roomClosed"
	TypeError             = "error"
)

// Inbound is a client message. Only the fields relevant to Type are read.
type Inbound struct {
	Type           string `json:"type"`
	QuizID         string `json:"quizId,omitempty"`
	RoomCode       string `json:"roomCode,omitempty"`
	UserID         string `json:"userId,omitempty"`
	Name           string `json:"name,omitempty"`
	QuestionID     string `json:"questionId,omitempty"`
	SelectedOption string `json:"selectedOption,omitempty"`
}

type RoomCreated struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

type JoinedRoom struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

// QuestionView is the participant-facing question; it never carries correctness.
type QuestionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewQuestion announces a question. Deadline is unix milliseconds and
// Duration the remaining whole seconds.
type NewQuestion struct {
	Type     string       `json:"type"`
	Question QuestionView `json:"question"`
	Deadline int64        `json:"deadline"`
	Duration int          `json:"duration"`
}

type AnswerResult struct {
	Type    string `json:"type"`
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
}

type ResponseUpdate struct {
	Type           string                `json:"type"`
	QuestionID     string                `json:"questionId"`
	Responses      []domain.ResponseStat `json:"responses"`
	TotalResponses int                   `json:"totalResponses"`
}

type ParticipantUpdate struct {
	Type         string   `json:"type"`
	Participants []string `json:"participants"`
}

type Leaderboard struct {
	Type        string                    `json:"type"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type TimeUp struct {
	Type string `json:"type"`
}

type RoomClosed struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorMessage(err error) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: err.Error()}
}

func newQuestionMessage(q *questionSnapshot, now time.Time) NewQuestion {
	options := make([]OptionView, len(q.options))
	copy(options, q.options)
	remaining := q.deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return NewQuestion{
		Type: TypeNewQuestion,
		Question: QuestionView{
			ID:      q.id,
			Text:    q.text,
			Options: options,
		},
		Deadline: q.deadline.UnixMilli(),
		Duration: int(remaining / time.Second),
	}
}
