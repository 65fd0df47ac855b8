package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, InitWriter(&bytes.Buffer{}, "loud", false))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWriter(&buf, "debug", false))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	ctx := WithRequestID(context.Background(), "req-1")
	FromContext(ctx).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	l := FromContext(context.Background())
	assert.Same(t, &log.Logger, l)
}
