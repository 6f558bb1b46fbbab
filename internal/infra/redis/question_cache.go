package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"live-quiz-service/internal/domain"
)

// QuestionLoader fetches question content from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, questionID string) (domain.Question, error)
}

// QuestionCache caches questions in Redis (hash per question) and falls back to a loader on cache miss.
// Layout: HSET question:{questionID} quiz {quizID} text {text} points {points} options {json}
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Resolve implements app.QuestionStore.
func (c *QuestionCache) Resolve(ctx context.Context, questionID string) (domain.Question, error) {
	key := c.key(questionID)

	if q, ok := c.cached(ctx, key, questionID); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(questionID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if q, ok := c.cached(ctx, key, questionID); ok {
			return q, nil
		}

		q, err := c.loader.LoadQuestion(ctx, questionID)
		if err != nil {
			return domain.Question{}, err
		}

		options, err := json.Marshal(q.Options)
		if err != nil {
			return domain.Question{}, fmt.Errorf("marshal options: %w", err)
		}
		pipe := c.client.Pipeline()
		pipe.HSet(ctx, key,
			"quiz", q.QuizID,
			"text", q.Text,
			"points", q.PointValue(),
			"options", string(options),
		)
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *QuestionCache) cached(ctx context.Context, key, questionID string) (domain.Question, bool) {
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return domain.Question{}, false
	}
	q, err := buildQuestionFromCache(questionID, fields)
	if err != nil {
		return domain.Question{}, false
	}
	return q, true
}

func (c *QuestionCache) key(questionID string) string {
	return "question:" + questionID
}

func buildQuestionFromCache(questionID string, fields map[string]string) (domain.Question, error) {
	q := domain.Question{
		ID:     questionID,
		QuizID: fields["quiz"],
		Text:   fields["text"],
		Points: 1,
	}
	if p, err := strconv.Atoi(fields["points"]); err == nil && p != 0 {
		q.Points = p
	}
	if err := json.Unmarshal([]byte(fields["options"]), &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("decode cached options: %w", err)
	}
	return q, nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
