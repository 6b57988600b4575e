package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps session histories in Redis with a native TTL, so lazy
// eviction is handled by the server: an expired conversation simply reads
// as absent. Each write rewrites the key with a fresh TTL, which doubles as
// the last-activity refresh.
type RedisStore struct {
	redis  *redis.Client
	prompt PromptProvider
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed store seeding new sessions from prompt.
func NewRedisStore(client *redis.Client, prompt PromptProvider, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if prompt == nil {
		panic("session: prompt provider cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("bellavida.internal.session")
	}
	return &RedisStore{
		redis:  client,
		prompt: prompt,
		tracer: tracer,
	}
}

var _ Store = (*RedisStore)(nil)

func sessionKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "session.get")
	defer span.End()

	turns, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return turns, nil
}

func (s *RedisStore) Upsert(ctx context.Context, id string, turn Turn) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "session.upsert")
	defer span.End()

	turns, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if turns == nil {
		turns = []Turn{{Role: RoleSystem, Content: s.prompt()}}
	}
	turns = append(turns, turn)
	if err := s.save(ctx, id, turns); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return turns, nil
}

func (s *RedisStore) AppendReply(ctx context.Context, id string, turn Turn) error {
	ctx, span := s.tracer.Start(ctx, "session.append_reply")
	defer span.End()

	turns, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if turns == nil {
		// Conversation expired mid-flight; tolerated.
		return nil
	}
	turns = append(turns, turn)
	if err := s.save(ctx, id, turns); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) ([]Turn, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("session: failed to load history: %w", err)
	}
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("session: failed to decode history: %w", err)
	}
	return turns, nil
}

func (s *RedisStore) save(ctx context.Context, id string, turns []Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("session: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(id), data, TTL).Err(); err != nil {
		return fmt.Errorf("session: failed to persist history: %w", err)
	}
	return nil
}
