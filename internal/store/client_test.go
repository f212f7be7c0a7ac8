package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/peoplelint/internal/lint"
)

const testRunID = "0b7a3c1e-9f6d-4b2a-8e5c-1d2f3a4b5c6d"

// setupTestClient creates a test client connected to a miniredis instance
func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	client, err := NewClient(&redis.Options{Addr: mr.Addr()}, testRunID)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func sampleResult() *lint.Result {
	r := lint.NewResult()
	r.Errors = []string{"missing legislator for lower 3"}
	r.ErrorsByFilename["a.yml"] = []string{"no active roles"}
	r.Checked = []string{"a.yml", "b.yml"}
	return r
}

func TestNewClient(t *testing.T) {
	t.Run("creates client successfully", func(t *testing.T) {
		client, _ := setupTestClient(t)
		assert.Equal(t, testRunID, client.RunID())
	})

	t.Run("rejects empty run id", func(t *testing.T) {
		_, err := NewClient(&redis.Options{Addr: "localhost:6379"}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run id cannot be empty")
	})

	t.Run("rejects non-uuid run id", func(t *testing.T) {
		_, err := NewClient(&redis.Options{Addr: "localhost:6379"}, "yesterday")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid UUID")
	})
}

func TestPing(t *testing.T) {
	client, _ := setupTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	assert.NoError(t, ValidateRunID(id))
	assert.NotEqual(t, id, NewRunID())
}

func TestSaveAndGetResult(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveResult(ctx, "nc", sampleResult()))

	assert.True(t, mr.Exists(ResultKey(testRunID, "nc")))
	assert.Equal(t, "2", mr.HGet(ResultKey(testRunID, "nc"), "error_count"))

	stored, err := client.GetResult(ctx, "nc")
	require.NoError(t, err)
	assert.Equal(t, testRunID, stored.RunID)
	assert.Equal(t, "nc", stored.Abbr)
	assert.Equal(t, 2, stored.ErrorCount)
	assert.NotZero(t, stored.CreatedAtMs)
	assert.Equal(t, sampleResult(), stored.Result)
}

func TestSaveResult_Overwrites(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveResult(ctx, "nc", sampleResult()))
	require.NoError(t, client.SaveResult(ctx, "nc", lint.NewResult()))

	stored, err := client.GetResult(ctx, "nc")
	require.NoError(t, err)
	assert.Zero(t, stored.ErrorCount)

	abbrs, err := client.Abbreviations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nc"}, abbrs)
}

func TestSaveResult_RejectsEmptyAbbr(t *testing.T) {
	client, _ := setupTestClient(t)
	assert.Error(t, client.SaveResult(context.Background(), "", sampleResult()))
}

func TestGetResult_NotFound(t *testing.T) {
	client, _ := setupTestClient(t)

	_, err := client.GetResult(context.Background(), "zz")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetResult_CorruptReport(t *testing.T) {
	client, mr := setupTestClient(t)
	mr.HSet(ResultKey(testRunID, "nc"), "error_count", "0")
	mr.HSet(ResultKey(testRunID, "nc"), "report", `{"errors": "oops"}`)

	_, err := client.GetResult(context.Background(), "nc")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "invalid report field")
}

func TestListResults(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	for _, abbr := range []string{"sc", "nc", "ak"} {
		require.NoError(t, client.SaveResult(ctx, abbr, sampleResult()))
	}

	results, err := client.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "ak", results[0].Abbr)
	assert.Equal(t, "nc", results[1].Abbr)
	assert.Equal(t, "sc", results[2].Abbr)
}

func TestRunsAreIsolated(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.SaveResult(ctx, "nc", sampleResult()))

	other, err := NewClient(&redis.Options{Addr: mr.Addr()}, NewRunID())
	require.NoError(t, err)
	defer other.Close()

	abbrs, err := other.Abbreviations(ctx)
	require.NoError(t, err)
	assert.Empty(t, abbrs)
}

func TestSaveResult_PublishesEvent(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, client.SaveResult(ctx, "nc", sampleResult()))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, ResultEventsChannel(testRunID), msg.Channel)

	var event ResultEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, ResultEvent{RunID: testRunID, Abbr: "nc", ErrorCount: 2}, event)
}

func TestKeyPatterns(t *testing.T) {
	assert.Equal(t, "peoplelint:run:result:nc", ResultKey("run", "nc"))
	assert.Equal(t, "peoplelint:run:results", ResultIndexKey("run"))
	assert.Equal(t, "peoplelint:run:result_events", ResultEventsChannel("run"))
}

func TestScanRunIDs(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.SaveResult(ctx, "nc", sampleResult()))

	other, err := NewClient(&redis.Options{Addr: mr.Addr()}, "0b7a3c1e-0000-4000-8000-000000000000")
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.SaveResult(ctx, "sc", sampleResult()))

	// unrelated keys are ignored
	mr.Set("peoplelint:not-a-run:results", "x")

	runs := NewRuns(&redis.Options{Addr: mr.Addr()})
	defer runs.Close()

	ids, err := runs.ScanRunIDs(ctx, "0b7a3c1e")
	require.NoError(t, err)
	assert.Equal(t, []string{"0b7a3c1e-0000-4000-8000-000000000000", testRunID}, ids)

	ids, err = runs.ScanRunIDs(ctx, "0b7a3c1e-9f6d")
	require.NoError(t, err)
	assert.Equal(t, []string{testRunID}, ids)

	ids, err = runs.ScanRunIDs(ctx, "ffffff")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
