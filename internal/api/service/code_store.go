package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCodeNotFound = errors.New("confirmation code not found or expired")

// CodeStore keeps the bcrypt hash of each outstanding confirmation code,
// keyed by user id. Entries expire on their own; a successful token
// exchange deletes the entry so a code can never be replayed.
type CodeStore interface {
	Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type redisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) CodeStore {
	return &redisCodeStore{client: client}
}

// NewRedisClient connects and verifies the connection before returning.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

func codeKey(userID string) string {
	return fmt.Sprintf("confirmation_code:user:%s", userID)
}

// Save overwrites any previous code for the user, so re-signup always
// invalidates the old code.
func (r *redisCodeStore) Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error {
	return r.client.Set(ctx, codeKey(userID), codeHash, ttl).Err()
}

func (r *redisCodeStore) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, codeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisCodeStore) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, codeKey(userID)).Err()
}
