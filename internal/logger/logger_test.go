package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	l := Logger()
	assert.NotNil(t, l)
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "test-request-123")

	val := ctx.Value(requestIDKey)
	assert.Equal(t, "test-request-123", val)
}

func TestWithUserID(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "user-456")

	val := ctx.Value(userIDKey)
	assert.Equal(t, "user-456", val)
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "production")
	l.Info("dashboard loaded", "state", "ready")
	l.Debug("suppressed at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "dashboard loaded", entry["msg"])
	assert.Equal(t, "ready", entry["state"])
}

func TestNew_DevelopmentWritesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "development")
	l.Debug("refetching", "seq", 3)

	assert.Contains(t, buf.String(), "msg=refetching")
	assert.Contains(t, buf.String(), "seq=3")
}

func TestFromContext_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	t.Cleanup(func() { Configure(os.Stderr, ""); defaultLogger = prev })

	Configure(&buf, "development")

	ctx := WithUserID(WithRequestID(context.Background(), "req-123"), "user-456")
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=req-123")
	assert.Contains(t, buf.String(), "user_id=user-456")
}

func TestConvenienceFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	t.Cleanup(func() { Configure(os.Stderr, ""); defaultLogger = prev })

	Configure(&buf, "development")

	Info("test info", "key", "value")
	Error("test error", "key", "value")
	Debug("test debug", "key", "value")
	Warn("test warn", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "level=WARN")
}
