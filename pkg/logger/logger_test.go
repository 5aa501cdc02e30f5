package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInfoCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{ServiceName: "shopcore", Output: &buf})

	ctx := log.WithEntity(context.Background(), "order")
	ctx = log.WithUserID(ctx, "user-1")
	log.Info(ctx, "order placed")

	entry := logLine(t, &buf)
	assert.Equal(t, "shopcore", entry["service"])
	assert.Equal(t, "order", entry["entity"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "order placed", entry["message"])
}

func TestErrorIncludesCauseAndStack(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{ServiceName: "shopcore", Output: &buf})

	log.Error(context.Background(), "write failed", errors.New("duplicate key value"))

	entry := logLine(t, &buf)
	assert.Equal(t, "duplicate key value", entry["error"])
	assert.NotEmpty(t, entry["stack"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{ServiceName: "shopcore", Output: &buf, Level: zerolog.WarnLevel})

	log.Info(context.Background(), "quiet")
	assert.Zero(t, buf.Len())

	log.Warn(context.Background(), "loud")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("shouting"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" ERROR "))
}

func TestFieldsDoNotLeakAcrossContexts(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{ServiceName: "shopcore", Output: &buf})

	_ = log.WithEntity(context.Background(), "payment")
	log.Info(context.Background(), "plain")

	entry := logLine(t, &buf)
	_, ok := entry["entity"]
	assert.False(t, ok)
}
