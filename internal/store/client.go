package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/peoplelint/internal/lint"
)

// Client reads and writes the results of one run.
// It is safe for concurrent use.
type Client struct {
	rdb   *redis.Client
	runID string
}

// NewClient creates a client for runID, which must be a UUID.
func NewClient(redisOpts *redis.Options, runID string) (*Client, error) {
	if err := ValidateRunID(runID); err != nil {
		return nil, err
	}

	return &Client{
		rdb:   redis.NewClient(redisOpts),
		runID: runID,
	}, nil
}

// RunID returns the run this client is scoped to.
func (c *Client) RunID() string {
	return c.runID
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SaveResult stores the result for abbr, adds abbr to the run index and
// publishes a ResultEvent. Saving the same abbreviation twice overwrites it.
func (c *Client) SaveResult(ctx context.Context, abbr string, result *lint.Result) error {
	if abbr == "" {
		return fmt.Errorf("abbreviation cannot be empty")
	}

	stored := &StoredResult{
		RunID:       c.runID,
		Abbr:        abbr,
		ErrorCount:  result.ErrorCount(),
		CreatedAtMs: time.Now().UnixMilli(),
		Result:      result,
	}
	hash, err := ResultToHash(stored)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	key := ResultKey(c.runID, abbr)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, hash)
		pipe.SAdd(ctx, ResultIndexKey(c.runID), abbr)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write result to Redis: %w", err)
	}

	event, err := json.Marshal(ResultEvent{RunID: c.runID, Abbr: abbr, ErrorCount: stored.ErrorCount})
	if err != nil {
		return fmt.Errorf("failed to marshal result event: %w", err)
	}
	if err := c.rdb.Publish(ctx, ResultEventsChannel(c.runID), event).Err(); err != nil {
		return fmt.Errorf("failed to publish result event: %w", err)
	}

	log.Printf("[Store] saved %s for run %s (%d errors)", abbr, c.runID, stored.ErrorCount)
	return nil
}

// GetResult reads the result for abbr.
// Returns (nil, redis.Nil) if it doesn't exist; use IsNotFound.
func (c *Client) GetResult(ctx context.Context, abbr string) (*StoredResult, error) {
	hash, err := c.rdb.HGetAll(ctx, ResultKey(c.runID, abbr)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read result from Redis: %w", err)
	}
	if len(hash) == 0 {
		return nil, redis.Nil
	}

	stored, err := HashToResult(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize result for %s: %w", abbr, err)
	}
	return stored, nil
}

// Abbreviations lists the abbreviations saved for the run, sorted.
func (c *Client) Abbreviations(ctx context.Context) ([]string, error) {
	abbrs, err := c.rdb.SMembers(ctx, ResultIndexKey(c.runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read result index: %w", err)
	}
	sort.Strings(abbrs)
	return abbrs, nil
}

// ListResults reads every result saved for the run, sorted by abbreviation.
func (c *Client) ListResults(ctx context.Context) ([]*StoredResult, error) {
	abbrs, err := c.Abbreviations(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*StoredResult, 0, len(abbrs))
	for _, abbr := range abbrs {
		stored, err := c.GetResult(ctx, abbr)
		if err != nil {
			return nil, err
		}
		results = append(results, stored)
	}
	return results, nil
}

// Subscribe returns a subscription to the run's result events.
// The caller must close it.
func (c *Client) Subscribe(ctx context.Context) *redis.PubSub {
	return c.rdb.Subscribe(ctx, ResultEventsChannel(c.runID))
}

// IsNotFound reports whether err means the result does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Runs looks up run ids across the whole Redis database.
type Runs struct {
	rdb *redis.Client
}

// NewRuns creates a run lookup.
func NewRuns(redisOpts *redis.Options) *Runs {
	return &Runs{rdb: redis.NewClient(redisOpts)}
}

// Close closes the Redis connection.
func (r *Runs) Close() error {
	return r.rdb.Close()
}

// Ping verifies Redis connectivity.
func (r *Runs) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// ScanRunIDs returns the ids of saved runs starting with prefix, sorted.
func (r *Runs) ScanRunIDs(ctx context.Context, prefix string) ([]string, error) {
	pattern := ResultIndexKey(prefix + "*")
	var ids []string
	iter := r.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if id, ok := runIDFromIndexKey(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
