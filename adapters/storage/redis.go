package storage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"escrow-charge/internal/errors"
)

const redisKeyPrefix = "escrow:"

// RedisOptions configures the redis backend
type RedisOptions struct {
	Addr string
	DB   int

	// TTL expires quotes; zero keeps them
	TTL time.Duration
}

// RedisStore keeps quotes as JSON values with a per-project sorted index
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis connects to redis and verifies the connection
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
		DB:   opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Storage(fmt.Sprintf("connect redis %s", opts.Addr), err)
	}
	return NewRedisStore(client, opts.TTL), nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func quoteKey(id string) string {
	return redisKeyPrefix + "quote:" + id
}

func projectKey(projectID string) string {
	return redisKeyPrefix + "project:" + projectID + ":quotes"
}

func (s *RedisStore) Save(ctx context.Context, quote *Quote) error {
	if err := prepare(quote); err != nil {
		return err
	}

	data, err := json.Marshal(quote)
	if err != nil {
		return errors.Internal("marshal quote", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, quoteKey(quote.ID), data, s.ttl)
	pipe.ZAdd(ctx, projectKey(quote.ProjectID), redis.Z{
		Score:  float64(toMillis(quote.CreatedAt)),
		Member: quote.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Storage(fmt.Sprintf("save quote %s", quote.ID), err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Quote, error) {
	data, err := s.client.Get(ctx, quoteKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.NotFound("quote", id)
	}
	if err != nil {
		return nil, errors.Storage("get quote", err)
	}

	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, errors.Internal(fmt.Sprintf("decode quote %s", id), err)
	}
	return &q, nil
}

func (s *RedisStore) List(ctx context.Context, projectID string) ([]*Quote, error) {
	ids, err := s.client.ZRange(ctx, projectKey(projectID), 0, -1).Result()
	if err != nil {
		return nil, errors.Storage("list quotes", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = quoteKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Storage("list quotes", err)
	}

	var quotes []*Quote
	var expired []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// value expired; drop it from the index
			expired = append(expired, ids[i])
			continue
		}
		var q Quote
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, errors.Internal(fmt.Sprintf("decode quote %s", ids[i]), err)
		}
		quotes = append(quotes, &q)
	}
	if len(expired) > 0 {
		_ = s.client.ZRem(ctx, projectKey(projectID), expired...).Err()
	}
	sortQuotes(quotes)
	return quotes, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
