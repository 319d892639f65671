package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statusPrefix   = "payment:status:"
	metadataPrefix = "payment:meta:"
)

// RedisStore shares order state between several relay instances. Entries
// expire after ttl.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Connect parses a redis URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return rdb, nil
}

func (s *RedisStore) SaveStatus(ctx context.Context, orderRef, resultCode string) (PaymentStatusRecord, error) {
	rec := PaymentStatusRecord{
		OrderRef:   orderRef,
		ResultCode: resultCode,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.set(ctx, statusPrefix+orderRef, rec); err != nil {
		return PaymentStatusRecord{}, fmt.Errorf("saving status for %s: %w", orderRef, err)
	}
	return rec, nil
}

func (s *RedisStore) Status(ctx context.Context, orderRef string) (PaymentStatusRecord, error) {
	var rec PaymentStatusRecord
	if err := s.get(ctx, statusPrefix+orderRef, &rec); err != nil {
		return PaymentStatusRecord{}, err
	}
	return rec, nil
}

func (s *RedisStore) AllStatuses(ctx context.Context) (map[string]PaymentStatusRecord, error) {
	out := make(map[string]PaymentStatusRecord)

	iter := s.rdb.Scan(ctx, 0, statusPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		var rec PaymentStatusRecord
		err := s.get(ctx, key, &rec)
		if errors.Is(err, ErrNotFound) {
			// expired between SCAN and GET
			continue
		}
		if err != nil {
			return nil, err
		}
		out[strings.TrimPrefix(key, statusPrefix)] = rec
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning statuses: %w", err)
	}

	return out, nil
}

func (s *RedisStore) SaveMetadata(ctx context.Context, orderRef string, meta OrderMetadata) error {
	if err := s.set(ctx, metadataPrefix+orderRef, meta); err != nil {
		return fmt.Errorf("saving metadata for %s: %w", orderRef, err)
	}
	return nil
}

func (s *RedisStore) Metadata(ctx context.Context, orderRef string) (OrderMetadata, error) {
	var meta OrderMetadata
	if err := s.get(ctx, metadataPrefix+orderRef, &meta); err != nil {
		return OrderMetadata{}, err
	}
	return meta, nil
}

func (s *RedisStore) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}
