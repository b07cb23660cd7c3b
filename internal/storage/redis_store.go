package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
)

// RedisStore хранит записи как строковые ключи Redis с общим префиксом
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore подключается к Redis и проверяет соединение
func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.wrap(s.client.Set(ctx, s.prefix+key, value, 0).Err())
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.wrap(err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.wrap(s.client.Del(ctx, s.prefix+key).Err())
}

// Scan собирает ключи через SCAN, сортирует их и читает значения пайплайном
func (s *RedisStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+prefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		// MATCH трактует * ? [ как шаблон, поэтому перепроверяем префикс
		if strings.HasPrefix(iter.Val(), s.prefix+prefix) {
			keys = append(keys, iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		return s.wrap(err)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.Get(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return s.wrap(err)
	}

	for i, k := range keys {
		value, err := cmds[i].Bytes()
		if errors.Is(err, redis.Nil) {
			// удалён между SCAN и GET
			continue
		}
		if err != nil {
			return s.wrap(err)
		}
		if err := fn(strings.TrimPrefix(k, s.prefix), value); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("redis: %w", err)
}
