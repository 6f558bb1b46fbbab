package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"live-quiz-service/internal/domain"
)

// ShowLeaderboard closes the open question, persists every participant's
// record and broadcasts the standings. The room stays open for more rounds.
// Callers that are not the room's admin are ignored.
func (s *QuizService) ShowLeaderboard(ctx context.Context, conn Conn) {
	room := s.adminRoom(conn)
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.closed || !room.isAdminLocked(conn) {
		room.mu.Unlock()
		return
	}
	room.cancelTimerLocked()
	room.current = nil
	entries := room.leaderboardLocked()
	records := room.recordsLocked(s.now())
	room.mu.Unlock()

	if s.opts.RankByScore {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Score > entries[j].Score
		})
	}

	// Writes run unlocked so joins and disconnects are not held up by the store.
	failed := s.persist(ctx, records)

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return
	}
	if len(failed) > 0 {
		err := fmt.Errorf("%w for %d participant(s)", domain.ErrPersistence, len(failed))
		_ = conn.Send(errorMessage(err))
	}

	msg := Leaderboard{Type: TypeLeaderboard, Leaderboard: entries}
	room.broadcastLocked(msg)
	room.sendAdminLocked(msg)

	s.log.WithFields(logrus.Fields{"room": room.code, "quiz": room.quizID, "entries": len(entries)}).Info("leaderboard shown")
}

// persist writes one record per participant. A failed write does not stop the
// others; the ids of failed records are returned.
func (s *QuizService) persist(ctx context.Context, records []domain.SubmissionRecord) []string {
	var (
		mu     sync.Mutex
		failed []string
	)
	g := new(errgroup.Group)
	g.SetLimit(s.opts.PersistWorkers)
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			wctx, cancel := context.WithTimeout(ctx, s.opts.PersistTimeout)
			defer cancel()
			if err := s.submissions.Append(wctx, rec); err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{"quiz": rec.QuizID, "user": rec.UserID}).Warn("persist submission failed")
				mu.Lock()
				failed = append(failed, rec.UserID)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}

// EndQuiz closes the admin's room: participants and the admin receive
// roomClosed and are disconnected. Nothing is persisted.
// Callers that are not the room's admin are ignored.
func (s *QuizService) EndQuiz(conn Conn) {
	room := s.adminRoom(conn)
	if room == nil {
		return
	}
	room.mu.Lock()
	isAdmin := room.isAdminLocked(conn)
	room.mu.Unlock()
	if !isAdmin {
		return
	}
	s.closeRoom(room, conn)
}

// closeRoom tears the room down. When admin is non-nil it is notified and
// closed as well; admin disconnects pass nil.
func (s *QuizService) closeRoom(room *Room, admin Conn) {
	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return
	}
	room.closed = true
	room.cancelTimerLocked()
	room.current = nil

	closed := RoomClosed{Type: TypeRoomClosed}
	for _, c := range room.participantConnsLocked() {
		_ = c.Send(closed)
		_ = c.Close()
	}
	room.participants = make(map[string]Conn)
	if admin != nil {
		_ = admin.Send(closed)
	}
	room.admin = nil
	room.mu.Unlock()

	s.registry.Destroy(room.code)
	if admin != nil {
		_ = admin.Close()
	}
	s.log.WithFields(logrus.Fields{"room": room.code, "quiz": room.quizID}).Info("room closed")
}
