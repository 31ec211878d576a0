package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "transcript:"

// RedisStore keeps entries as JSON records. Redis expires keys on its own,
// but the TTL is still checked on read so a store shared with a different
// TTL configuration behaves the same as the other backends.
type RedisStore struct {
	client *redis.Client
	opts   Options
}

func NewRedisStore(client *redis.Client, opts Options) *RedisStore {
	return &RedisStore{
		client: client,
		opts:   opts.withDefaults(),
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "redis get")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false, errors.Wrap(err, "decode cached transcript")
	}

	if s.opts.expired(time.Unix(rec.CreatedAt, 0)) {
		return "", false, nil
	}
	return rec.Text, true, nil
}

func (s *RedisStore) Put(ctx context.Context, id, text string) error {
	data, err := json.Marshal(record{Text: text, CreatedAt: s.opts.Now().Unix()})
	if err != nil {
		return errors.Wrap(err, "encode transcript")
	}

	if err := s.client.Set(ctx, redisKeyPrefix+id, data, s.opts.TTL).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
