package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, "warn")

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("Runner: send failed: %v", "closed")
	l.Error("Runner: turn fault: %s", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "warn", first["level"])
	assert.Equal(t, "Runner: send failed: closed", first["message"])
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSON(&buf, "debug")

	l := base.WithField("match_id", "m1").WithFields(map[string]interface{}{"nick": "alice"})
	l.Info("joined")

	assert.Equal(t, map[string]interface{}{"match_id": "m1", "nick": "alice"}, l.Fields())
	assert.Empty(t, base.Fields())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "m1", entry["match_id"])
	assert.Equal(t, "alice", entry["nick"])
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "chatty")

	l.Debug("hidden")
	l.Info("Runner: connected")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Runner: connected")
}

func TestForFormat(t *testing.T) {
	var buf bytes.Buffer
	ForFormat(&buf, "json", "info").Info("Runner: connected")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Runner: connected", entry["message"])

	buf.Reset()
	ForFormat(&buf, "console", "info").Info("Runner: stopped")
	assert.Contains(t, buf.String(), "INF Runner: stopped")
	assert.False(t, json.Valid(buf.Bytes()))
}
