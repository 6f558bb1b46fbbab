package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/domain"
)

var (
	// ErrConnClosed is returned by Conn.Send once the connection is closed.
	ErrConnClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned by Conn.Send when the peer is not keeping up.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Conn is the outbound side of one client connection. Send must not block;
// implementations drop the message and return an error instead.
type Conn interface {
	ID() string
	Send(msg any) error
	Close() error
}

// QuestionStore resolves question ids to their content.
type QuestionStore interface {
	Resolve(ctx context.Context, questionID string) (domain.Question, error)
}

// SubmissionStore durably appends finished participant records.
type SubmissionStore interface {
	Append(ctx context.Context, record domain.SubmissionRecord) error
}

// Options tunes room behaviour.
type Options struct {
	QuestionDuration time.Duration
	PersistTimeout   time.Duration
	// RankByScore sorts the leaderboard by score; otherwise entries keep join order.
	RankByScore bool
	// PersistWorkers bounds concurrent submission writes per leaderboard.
	PersistWorkers int
	Clock          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.QuestionDuration <= 0 {
		o.QuestionDuration = 40 * time.Second
	}
	if o.PersistTimeout <= 0 {
		o.PersistTimeout = 5 * time.Second
	}
	if o.PersistWorkers <= 0 {
		o.PersistWorkers = 8
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// QuizService orchestrates live quiz rooms.
type QuizService struct {
	registry    *Registry
	questions   QuestionStore
	submissions SubmissionStore
	log         logrus.FieldLogger
	opts        Options
}

func NewQuizService(registry *Registry, questions QuestionStore, submissions SubmissionStore, logger logrus.FieldLogger, opts Options) *QuizService {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = l
	}
	return &QuizService{
		registry:    registry,
		questions:   questions,
		submissions: submissions,
		log:         logger,
		opts:        opts.withDefaults(),
	}
}

func (s *QuizService) now() time.Time {
	return s.opts.Clock()
}

// Registry exposes the room registry backing the service.
func (s *QuizService) Registry() *Registry {
	return s.registry
}

// Handle dispatches one inbound message from conn.
func (s *QuizService) Handle(ctx context.Context, conn Conn, msg Inbound) {
	switch msg.Type {
	case TypeCreateRoom:
		s.CreateRoom(conn, msg.QuizID)
	case TypeJoinRoom:
		s.JoinRoom(conn, msg.RoomCode, msg.UserID, msg.Name)
	case TypeNextQuestion:
		s.NextQuestion(ctx, conn, msg.QuestionID)
	case TypeSubmitAnswer:
		s.SubmitAnswer(conn, msg.QuestionID, msg.SelectedOption)
	case TypeShowLeaderboard:
		s.ShowLeaderboard(ctx, conn)
	case TypeEndQuiz:
		s.EndQuiz(conn)
	default:
		_ = conn.Send(ErrorMessage{Type: TypeError, Message: "unsupported message type"})
	}
}

// CreateRoom opens a new room for quizID and binds conn as its admin.
func (s *QuizService) CreateRoom(conn Conn, quizID string) {
	if quizID == "" {
		_ = conn.Send(errorMessage(domain.ErrInvalidMessage))
		return
	}
	if _, bound := s.registry.contextOf(conn); bound {
		_ = conn.Send(errorMessage(domain.ErrAlreadyInRoom))
		return
	}

	room, err := s.registry.Create(quizID, conn)
	if err != nil {
		s.log.WithError(err).WithField("quiz", quizID).Error("create room failed")
		_ = conn.Send(errorMessage(err))
		return
	}

	_ = conn.Send(RoomCreated{Type: TypeRoomCreated, RoomCode: FormatCode(room.code)})
	s.log.WithFields(logrus.Fields{"room": room.code, "quiz": quizID, "conn": conn.ID()}).Info("room created")
}

// JoinRoom binds conn as participantID in the room identified by rawCode.
// Rejoining under a known participant id keeps the existing score.
func (s *QuizService) JoinRoom(conn Conn, rawCode, participantID, name string) {
	if participantID == "" || name == "" {
		_ = conn.Send(errorMessage(domain.ErrInvalidMessage))
		return
	}
	code := NormalizeCode(rawCode)
	room, ok := s.registry.Lookup(code)
	if !ok {
		_ = conn.Send(errorMessage(domain.ErrRoomNotFound))
		return
	}

	var previous *connContext
	if prev, bound := s.registry.contextOf(conn); bound {
		if prev.role == roleAdmin {
			_ = conn.Send(errorMessage(domain.ErrAlreadyInRoom))
			return
		}
		if prev.code != code || prev.participantID != participantID {
			previous = &prev
		}
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		_ = conn.Send(errorMessage(domain.ErrRoomNotFound))
		return
	}

	stale := room.joinLocked(participantID, name, conn)
	if stale != nil && stale.ID() != conn.ID() {
		s.registry.unbindIf(stale, connContext{role: roleParticipant, code: code, participantID: participantID})
	}
	s.registry.bind(conn, connContext{role: roleParticipant, code: code, participantID: participantID})

	_ = conn.Send(JoinedRoom{Type: TypeJoinedRoom, RoomCode: code})
	if room.current != nil {
		_ = conn.Send(newQuestionMessage(room.current, s.now()))
	}
	room.pushRosterLocked()
	room.mu.Unlock()

	// The old binding is released only once the new one is in place.
	if previous != nil {
		if old, ok := s.registry.Lookup(previous.code); ok {
			s.detachParticipantFromRoom(old, conn, previous.participantID)
		}
	}

	s.log.WithFields(logrus.Fields{"room": code, "user": participantID, "conn": conn.ID()}).Info("participant joined")
}

// Disconnect runs cleanup for a lost connection. Losing the admin closes the room.
func (s *QuizService) Disconnect(conn Conn) {
	cc, ok := s.registry.unbind(conn)
	if !ok {
		return
	}
	room, ok := s.registry.Lookup(cc.code)
	if !ok {
		return
	}

	switch cc.role {
	case roleAdmin:
		room.mu.Lock()
		isAdmin := room.isAdminLocked(conn)
		room.mu.Unlock()
		if isAdmin {
			s.log.WithField("room", room.code).Info("admin disconnected, closing room")
			s.closeRoom(room, nil)
		}
	case roleParticipant:
		s.detachParticipantFromRoom(room, conn, cc.participantID)
	}
}

func (s *QuizService) detachParticipantFromRoom(room *Room, conn Conn, participantID string) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || !room.isParticipantLocked(participantID, conn) {
		return
	}
	delete(room.participants, participantID)
	room.pushRosterLocked()
	s.log.WithFields(logrus.Fields{"room": room.code, "user": participantID}).Info("participant disconnected")
}

// Shutdown closes every live room, notifying admins and participants.
func (s *QuizService) Shutdown() {
	for _, room := range s.registry.Rooms() {
		room.mu.Lock()
		admin := room.admin
		room.mu.Unlock()
		s.closeRoom(room, admin)
	}
}

// adminRoom resolves the room conn controls, or nil when conn is not an admin.
func (s *QuizService) adminRoom(conn Conn) *Room {
	cc, ok := s.registry.contextOf(conn)
	if !ok || cc.role != roleAdmin {
		return nil
	}
	room, ok := s.registry.Lookup(cc.code)
	if !ok {
		return nil
	}
	return room
}
