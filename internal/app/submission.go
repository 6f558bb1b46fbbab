package app

import (
	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/domain"
)

// SubmitAnswer records conn's answer to the active question.
func (s *QuizService) SubmitAnswer(conn Conn, questionID, selectedOption string) {
	cc, ok := s.registry.contextOf(conn)
	if !ok || cc.role != roleParticipant {
		_ = conn.Send(errorMessage(domain.ErrNotAuthorized))
		return
	}
	room, ok := s.registry.Lookup(cc.code)
	if !ok {
		_ = conn.Send(errorMessage(domain.ErrNotAuthorized))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := s.acceptAnswerLocked(room, cc.participantID, conn, questionID, selectedOption); err != nil {
		if err == domain.ErrExpired {
			_ = conn.Send(TimeUp{Type: TypeTimeUp})
			return
		}
		_ = conn.Send(errorMessage(err))
		return
	}

	sub := room.submissions[cc.participantID]
	last := sub.answers[len(sub.answers)-1]
	_ = conn.Send(AnswerResult{Type: TypeAnswerResult, Correct: last.Correct, Score: sub.score})

	room.sendAdminLocked(responseUpdateLocked(room))

	s.log.WithFields(logrus.Fields{
		"room":     room.code,
		"user":     cc.participantID,
		"question": questionID,
		"option":   selectedOption,
		"correct":  last.Correct,
	}).Debug("answer accepted")
}

// acceptAnswerLocked validates and appends one answer, updating the score.
func (s *QuizService) acceptAnswerLocked(room *Room, participantID string, conn Conn, questionID, selectedOption string) error {
	if room.closed || !room.isParticipantLocked(participantID, conn) {
		return domain.ErrNotAuthorized
	}
	q := room.current
	if q == nil || q.id != questionID {
		return domain.ErrQuestionMismatch
	}
	if s.now().After(q.deadline) {
		return domain.ErrExpired
	}
	sub := room.submissions[participantID]
	if sub.answered(questionID) {
		return domain.ErrDuplicateAnswer
	}

	correct := selectedOption == q.correctOptionID
	if correct {
		sub.score += q.points
	}
	sub.answers = append(sub.answers, domain.AnswerRecord{
		QuestionID:     questionID,
		SelectedOption: selectedOption,
		Correct:        correct,
	})
	return nil
}
