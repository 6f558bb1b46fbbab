package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
)

var connSeq atomic.Int64

// recConn records every message sent to it.
type recConn struct {
	id string

	mu     sync.Mutex
	msgs   []any
	closed bool
}

func newConn(id string) *recConn {
	return &recConn{id: id}
}

func (c *recConn) ID() string { return c.id }

func (c *recConn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return app.ErrConnClosed
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *recConn) messages() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *recConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

func lastOf[T any](c *recConn) (T, bool) {
	msgs := c.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func countOf[T any](c *recConn) int {
	n := 0
	for _, m := range c.messages() {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}

func lastError(c *recConn) string {
	m, ok := lastOf[app.ErrorMessage](c)
	if !ok {
		return ""
	}
	return m.Message
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// failingStore rejects records for the listed users.
type failingStore struct {
	*memory.SubmissionStore
	fail map[string]bool
}

func (s *failingStore) Append(ctx context.Context, rec domain.SubmissionRecord) error {
	if s.fail[rec.UserID] {
		return errors.New("disk full")
	}
	return s.SubmissionStore.Append(ctx, rec)
}

type harness struct {
	svc   *app.QuizService
	clock *testClock
	subs  *memory.SubmissionStore
}

func newHarness(t *testing.T, opts app.Options) *harness {
	t.Helper()
	return newHarnessWithStore(t, opts, nil)
}

func newHarnessWithStore(t *testing.T, opts app.Options, wrap func(*memory.SubmissionStore) app.SubmissionStore) *harness {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)}
	subs := memory.NewSubmissionStore()
	var store app.SubmissionStore = subs
	if wrap != nil {
		store = wrap(subs)
	}
	if opts.Clock == nil {
		opts.Clock = clock.now
	}
	questions := memory.NewQuestionCache(memory.NewStaticQuizLoader(testQuizzes()), time.Minute)
	registry := app.NewRegistryWithClock(memory.NewRoomStore(), opts.Clock)
	return &harness{
		svc:   app.NewQuizService(registry, questions, store, nil, opts),
		clock: clock,
		subs:  subs,
	}
}

func (h *harness) createRoom(t *testing.T, admin *recConn, quizID string) string {
	t.Helper()
	h.svc.CreateRoom(admin, quizID)
	created, ok := lastOf[app.RoomCreated](admin)
	require.True(t, ok, "expected roomCreated")
	return created.RoomCode
}

func (h *harness) join(t *testing.T, code, userID, name string) *recConn {
	t.Helper()
	conn := newConn(fmt.Sprintf("conn-%s-%d", userID, connSeq.Add(1)))
	h.svc.JoinRoom(conn, code, userID, name)
	_, ok := lastOf[app.JoinedRoom](conn)
	require.True(t, ok, "expected joinedRoom, got %v", conn.messages())
	return conn
}

func testQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "Pick the first option",
					Options: []domain.Option{
						{ID: "o1", Text: "First", Correct: true},
						{ID: "o2", Text: "Second"},
					},
					Points: 1,
				},
				{
					ID:   "q2",
					Text: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "a", Text: "3"},
						{ID: "b", Text: "4", Correct: true},
						{ID: "c", Text: "5"},
					},
					Points: 3,
				},
				{
					ID:   "q3",
					Text: "Nobody knows",
					Options: []domain.Option{
						{ID: "x", Text: "Maybe"},
						{ID: "y", Text: "Perhaps"},
					},
				},
				{
					ID:   "q4",
					Text: "Unscored question",
					Options: []domain.Option{
						{ID: "yes", Text: "Yes", Correct: true},
						{ID: "no", Text: "No"},
					},
				},
			},
		},
	}
}

// blockingStore holds every write until release is closed.
type blockingStore struct {
	*memory.SubmissionStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingStore) Append(ctx context.Context, rec domain.SubmissionRecord) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.SubmissionStore.Append(ctx, rec)
}
