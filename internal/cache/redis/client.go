package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinsim/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetEvaluation caches a finished evaluation result under the hash of its
// inputs. Both SOAP and mini-CEX results share this keyspace with distinct
// hash inputs.
func (c *Client) SetEvaluation(ctx context.Context, inputHash string, result interface{}, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation result: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("eval:%s", inputHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set evaluation cache: %w", err)
	}

	logger.Debug("Evaluation cached", zap.String("input_hash", inputHash), zap.Duration("ttl", ttl))
	return nil
}

func (c *Client) GetEvaluation(ctx context.Context, inputHash string, result interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("eval:%s", inputHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get evaluation cache: %w", err)
	}

	err = json.Unmarshal(data, result)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal evaluation result: %w", err)
	}

	logger.Debug("Evaluation cache hit", zap.String("input_hash", inputHash))
	return true, nil
}

// SetSessionCase remembers which case a session was started with so chat and
// finish requests can omit the case payload.
func (c *Client) SetSessionCase(ctx context.Context, sessionID, caseID string, ttl time.Duration) error {
	err := c.client.Set(ctx, fmt.Sprintf("session:%s", sessionID), caseID, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session mapping: %w", err)
	}
	return nil
}

func (c *Client) GetSessionCase(ctx context.Context, sessionID string) (string, bool, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("session:%s", sessionID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session mapping: %w", err)
	}
	return val, true, nil
}

// InvalidateEvaluationCache drops all cached evaluation results. Called when
// knowledge documents change, since prompts embed retrieved excerpts.
func (c *Client) InvalidateEvaluationCache(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "eval:*", 0).Iterator()
	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Evaluation cache invalidated")
	return nil
}
