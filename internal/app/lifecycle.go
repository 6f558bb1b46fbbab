package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/domain"
)

// questionTimer is the cancellable time-up handle owned by a Room. It is
// replaced together with Room.current and checked by identity when it fires.
type questionTimer struct {
	t          *time.Timer
	questionID string
}

func (t *questionTimer) stop() {
	if t != nil && t.t != nil {
		t.t.Stop()
	}
}

// cancelTimerLocked stops and forgets the armed timer, if any.
func (r *Room) cancelTimerLocked() {
	r.timer.stop()
	r.timer = nil
}

// NextQuestion opens questionID in the admin's room with a fresh deadline.
// Callers that are not the room's admin are ignored.
func (s *QuizService) NextQuestion(ctx context.Context, conn Conn, questionID string) {
	room := s.adminRoom(conn)
	if room == nil {
		return
	}
	if questionID == "" {
		_ = conn.Send(errorMessage(domain.ErrQuestionNotFound))
		return
	}

	question, err := s.questions.Resolve(ctx, questionID)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			_ = conn.Send(errorMessage(domain.ErrQuestionNotFound))
			return
		}
		s.log.WithError(err).WithFields(logrus.Fields{"room": room.code, "question": questionID}).Error("resolve question failed")
		_ = conn.Send(ErrorMessage{Type: TypeError, Message: "could not load question"})
		return
	}
	correct, ok := question.CorrectOption()
	if !ok {
		_ = conn.Send(errorMessage(domain.ErrNoCorrectAnswer))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || !room.isAdminLocked(conn) {
		return
	}

	room.cancelTimerLocked()

	now := s.now()
	snapshot := &questionSnapshot{
		id:              question.ID,
		text:            question.Text,
		options:         make([]OptionView, 0, len(question.Options)),
		correctOptionID: correct,
		points:          question.PointValue(),
		deadline:        now.Add(s.opts.QuestionDuration),
	}
	for _, opt := range question.Options {
		snapshot.options = append(snapshot.options, OptionView{ID: opt.ID, Text: opt.Text})
	}
	room.current = snapshot

	room.broadcastLocked(newQuestionMessage(snapshot, now))
	s.armTimerLocked(room, snapshot.id)

	s.log.WithFields(logrus.Fields{
		"room":     room.code,
		"question": snapshot.id,
		"deadline": snapshot.deadline,
	}).Info("question dispatched")
}

// armTimerLocked schedules the time-up notice for questionID.
func (s *QuizService) armTimerLocked(room *Room, questionID string) {
	handle := &questionTimer{questionID: questionID}
	handle.t = time.AfterFunc(s.opts.QuestionDuration, func() {
		room.mu.Lock()
		defer room.mu.Unlock()

		// A newer question, leaderboard or close has superseded this timer.
		if room.closed || room.timer != handle || room.current == nil || room.current.id != questionID {
			s.log.WithFields(logrus.Fields{"room": room.code, "question": questionID}).Debug("stale question timer ignored")
			return
		}
		room.timer = nil
		room.broadcastLocked(TimeUp{Type: TypeTimeUp})
		s.log.WithFields(logrus.Fields{"room": room.code, "question": questionID}).Info("time up")
	})
	room.timer = handle
}
