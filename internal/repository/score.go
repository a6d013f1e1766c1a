package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "tictactoe:wins:"

	scanBatch = 100
)

var ErrScoreNotFound = errors.New("score not found")

// ScoreRepository is a flat key-value store of raw win counters.
type ScoreRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	DeleteAll(ctx context.Context) error
}

type dbScore struct {
	client *redis.Client
	prefix string
}

// NewScoreRepository - returns a Redis backed repository. Every key lives under prefix.
func NewScoreRepository(client *redis.Client, prefix string) ScoreRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &dbScore{
		client: client,
		prefix: prefix,
	}
}

func (that *dbScore) Get(ctx context.Context, key string) (string, error) {
	response, err := that.client.Get(ctx, that.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrScoreNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get score: %w", err)
	}

	return response, nil
}

func (that *dbScore) Set(ctx context.Context, key, value string) error {
	if err := that.client.Set(ctx, that.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}

	return nil
}

// DeleteAll - removes every key under the prefix and leaves the rest of the database alone.
func (that *dbScore) DeleteAll(ctx context.Context) error {
	iter := that.client.Scan(ctx, 0, that.prefix+"*", scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())

		if len(keys) == scanBatch {
			if err := that.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete scores: %w", err)
			}
			keys = keys[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan scores: %w", err)
	}

	if len(keys) > 0 {
		if err := that.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete scores: %w", err)
		}
	}

	return nil
}
