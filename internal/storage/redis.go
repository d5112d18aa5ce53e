package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finconnect/portal/internal/config"
)

// Redis — реализация Store поверх redis: переживает перезапуск процесса.
type Redis struct {
	db *redis.Client
}

// NewRedis подключается к redis по настройкам из конфига и проверяет соединение.
func NewRedis(ctx context.Context, cfg config.RedisConnection) (*Redis, error) {
	const op = "storage.NewRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{db: db}, nil
}

// Get читает значение по ключу в result.
func (r *Redis) Get(key string, result any) error {
	const op = "storage.Redis.Get"
	val, err := r.db.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Set сохраняет значение по ключу без срока жизни.
func (r *Redis) Set(key string, value any) error {
	const op = "storage.Redis.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.db.Set(context.Background(), key, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Remove удаляет значение по ключу.
func (r *Redis) Remove(key string) error {
	const op = "storage.Redis.Remove"
	if err := r.db.Del(context.Background(), key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с redis.
func (r *Redis) Close() error {
	return r.db.Close()
}
