package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/app"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - Rooms themselves (connections, timers) only live in this process; the
//     local map is authoritative for lookups.
//   - Redis holds a liveness marker per room code, claimed with SETNX so a
//     code still marked live is never handed out again.
type RoomStore struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
	log     logrus.FieldLogger

	mu    sync.RWMutex
	rooms map[string]*app.Room
}

const markerTimeout = 2 * time.Second

func NewRoomStore(client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *RoomStore {
	return &RoomStore{
		client:  client,
		ttl:     ttl,
		timeout: markerTimeout,
		log:     logger,
		rooms:   make(map[string]*app.Room),
	}
}

// Insert claims the marker before touching the local map, so a slow Redis
// never holds s.mu.
func (s *RoomStore) Insert(room *app.Room) bool {
	code := room.Code()
	s.mu.RLock()
	_, taken := s.rooms[code]
	s.mu.RUnlock()
	if taken {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	claimed, err := s.client.SetNX(ctx, s.key(code), room.QuizID(), s.ttl).Result()
	cancel()
	if err != nil {
		// Redis being down must not stop rooms from opening
		s.log.WithError(err).WithField("room", code).Warn("room marker not written")
	} else if !claimed {
		return false
	}

	s.mu.Lock()
	if _, taken := s.rooms[code]; taken {
		s.mu.Unlock()
		if claimed {
			s.clearMarker(code)
		}
		return false
	}
	s.rooms[code] = room
	s.mu.Unlock()
	return true
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	_, ok := s.rooms[code]
	delete(s.rooms, code)
	s.mu.Unlock()
	if ok {
		s.clearMarker(code)
	}
}

func (s *RoomStore) clearMarker(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key(code)).Err(); err != nil {
		s.log.WithError(err).WithField("room", code).Warn("room marker not removed")
	}
}

func (s *RoomStore) All() []*app.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*app.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (s *RoomStore) key(code string) string {
	return "quiz:room:" + code
}
