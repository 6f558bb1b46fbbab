package app

import (
	"math/rand"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

const maxCodeAttempts = 64

// RoomRepository abstracts where live rooms are kept (in-memory, Redis-marked, etc).
type RoomRepository interface {
	// Insert stores the room unless its code is already taken.
	Insert(room *Room) bool
	Get(code string) (*Room, bool)
	Delete(code string)
	All() []*Room
}

type role int

const (
	roleAdmin role = iota + 1
	roleParticipant
)

// connContext records what a connection is bound to. Records are replaced,
// never mutated.
type connContext struct {
	role          role
	code          string
	participantID string
}

// Registry maps room codes to rooms and connections to their bindings.
type Registry struct {
	rooms   RoomRepository
	now     func() time.Time
	newCode func() string

	mu    sync.Mutex
	conns map[string]connContext
}

func NewRegistry(rooms RoomRepository) *Registry {
	return NewRegistryWithClock(rooms, time.Now)
}

// NewRegistryWithClock allows deterministic timestamps in tests.
func NewRegistryWithClock(rooms RoomRepository, now func() time.Time) *Registry {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rndMu sync.Mutex
	return &Registry{
		rooms: rooms,
		now:   now,
		newCode: func() string {
			rndMu.Lock()
			defer rndMu.Unlock()
			return randomCode(rnd)
		},
		conns: make(map[string]connContext),
	}
}

// Create installs a new room for quizID with admin bound as its controller.
func (r *Registry) Create(quizID string, admin Conn) (*Room, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		room := newRoom(r.newCode(), quizID, admin, r.now())
		if !r.rooms.Insert(room) {
			continue
		}
		r.bind(admin, connContext{role: roleAdmin, code: room.code})
		return room, nil
	}
	return nil, domain.ErrCodeSpaceExhausted
}

func (r *Registry) Lookup(code string) (*Room, bool) {
	return r.rooms.Get(code)
}

// Destroy removes the room and every connection binding that points at it.
func (r *Registry) Destroy(code string) {
	r.rooms.Delete(code)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cc := range r.conns {
		if cc.code == code {
			delete(r.conns, id)
		}
	}
}

// Rooms returns a snapshot of live rooms.
func (r *Registry) Rooms() []*Room {
	return r.rooms.All()
}

func (r *Registry) bind(conn Conn, cc connContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID()] = cc
}

func (r *Registry) contextOf(conn Conn) (connContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cc, ok := r.conns[conn.ID()]
	return cc, ok
}

func (r *Registry) unbind(conn Conn) (connContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cc, ok := r.conns[conn.ID()]
	if ok {
		delete(r.conns, conn.ID())
	}
	return cc, ok
}

// unbindIf removes the binding only if it still matches cc.
func (r *Registry) unbindIf(conn Conn, cc connContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[conn.ID()]; ok && cur == cc {
		delete(r.conns, conn.ID())
	}
}
