package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocalStorage guarda as chaves de visitantes no Redis, com expiração.
type RedisLocalStorage struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

var _ LocalStorage = (*RedisLocalStorage)(nil)

// NewRedisLocalStorage conecta ao Redis e testa a conexão.
func NewRedisLocalStorage(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisLocalStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("falha ao conectar ao Redis: %w", err)
	}
	logger.Info("conexão com Redis estabelecida", zap.String("addr", addr))

	return NewRedisLocalStorageWithClient(client, ttl, logger), nil
}

// NewRedisLocalStorageWithClient usa um cliente já configurado.
func NewRedisLocalStorageWithClient(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocalStorage {
	return &RedisLocalStorage{client: client, ttl: ttl, logger: logger}
}

func (s *RedisLocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("falha ao ler %s do Redis: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisLocalStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("falha ao gravar %s no Redis: %w", key, err)
	}
	return nil
}

func (s *RedisLocalStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("falha ao remover %s do Redis: %w", key, err)
	}
	return nil
}

// Close encerra o cliente Redis.
func (s *RedisLocalStorage) Close() error {
	return s.client.Close()
}
