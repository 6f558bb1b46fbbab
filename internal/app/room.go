package app

import (
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// Room is the in-memory state of one live quiz session. All fields below mu
// are guarded by it; timer callbacks take the same lock as inbound messages.
type Room struct {
	code      string
	quizID    string
	createdAt time.Time

	mu           sync.Mutex
	admin        Conn
	participants map[string]Conn
	submissions  map[string]*submission
	order        []string // participant ids in first-join order
	current      *questionSnapshot
	timer        *questionTimer
	closed       bool
}

// submission is a participant's accumulated record for the room's lifetime.
type submission struct {
	name    string
	answers []domain.AnswerRecord
	score   int
}

func (s *submission) answered(questionID string) bool {
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// questionSnapshot is the server-held view of the open question. It is
// replaced on every dispatch and never mutated.
type questionSnapshot struct {
	id              string
	text            string
	options         []OptionView
	correctOptionID string
	points          int
	deadline        time.Time
}

func newRoom(code, quizID string, admin Conn, now time.Time) *Room {
	return &Room{
		code:         code,
		quizID:       quizID,
		createdAt:    now,
		admin:        admin,
		participants: make(map[string]Conn),
		submissions:  make(map[string]*submission),
	}
}

// Code returns the unformatted room code.
func (r *Room) Code() string { return r.code }

// QuizID returns the quiz this room was created from.
func (r *Room) QuizID() string { return r.quizID }

// CreatedAt returns when the room was created.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// joinLocked records a first-time participant and (re)binds the live connection.
// It returns the connection previously bound to participantID, if any.
func (r *Room) joinLocked(participantID, name string, conn Conn) Conn {
	if _, ok := r.submissions[participantID]; !ok {
		r.submissions[participantID] = &submission{name: name}
		r.order = append(r.order, participantID)
	}
	prev := r.participants[participantID]
	r.participants[participantID] = conn
	return prev
}

// rosterLocked lists names of participants that currently have a live connection.
func (r *Room) rosterLocked() []string {
	names := make([]string, 0, len(r.participants))
	for _, id := range r.order {
		if _, ok := r.participants[id]; ok {
			names = append(names, r.submissions[id].name)
		}
	}
	return names
}

func (r *Room) pushRosterLocked() {
	if r.admin == nil {
		return
	}
	_ = r.admin.Send(ParticipantUpdate{Type: TypeParticipantUpdate, Participants: r.rosterLocked()})
}

// participantConnsLocked snapshots the live participant connections.
func (r *Room) participantConnsLocked() []Conn {
	conns := make([]Conn, 0, len(r.participants))
	for _, id := range r.order {
		if c, ok := r.participants[id]; ok {
			conns = append(conns, c)
		}
	}
	return conns
}

// broadcastLocked sends msg to every participant. Failed sends are skipped.
func (r *Room) broadcastLocked(msg any) {
	for _, c := range r.participantConnsLocked() {
		_ = c.Send(msg)
	}
}

func (r *Room) sendAdminLocked(msg any) {
	if r.admin != nil {
		_ = r.admin.Send(msg)
	}
}

func (r *Room) isAdminLocked(conn Conn) bool {
	return r.admin != nil && r.admin.ID() == conn.ID()
}

func (r *Room) isParticipantLocked(participantID string, conn Conn) bool {
	c, ok := r.participants[participantID]
	return ok && c.ID() == conn.ID()
}

// leaderboardLocked lists every submissions record in first-join order.
func (r *Room) leaderboardLocked() []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(r.order))
	for _, id := range r.order {
		sub := r.submissions[id]
		entries = append(entries, domain.LeaderboardEntry{
			UserID: id,
			Name:   sub.name,
			Score:  sub.score,
		})
	}
	return entries
}

func (r *Room) recordsLocked(now time.Time) []domain.SubmissionRecord {
	records := make([]domain.SubmissionRecord, 0, len(r.order))
	for _, id := range r.order {
		sub := r.submissions[id]
		answers := make([]domain.AnswerRecord, len(sub.answers))
		copy(answers, sub.answers)
		records = append(records, domain.SubmissionRecord{
			UserID:      id,
			Name:        sub.name,
			QuizID:      r.quizID,
			Answers:     answers,
			Score:       sub.score,
			SubmittedAt: now,
		})
	}
	return records
}
