package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	level  Level
	msg    string
	fields map[string]any
}

func (r *recordingLogger) Log(level Level, msg string, fields map[string]any) {
	r.level, r.msg, r.fields = level, msg, fields
}

func TestFields(t *testing.T) {
	assert.Nil(t, Fields())
	assert.Equal(t, map[string]any{"user": "u1", "n": 2}, Fields("user", "u1", "n", 2))
	assert.Equal(t, map[string]any{"7": "x", "dangling": nil}, Fields(7, "x", "dangling"))
}

func TestLevelHelpers(t *testing.T) {
	l := &recordingLogger{}

	Warn(l, "slow query", "ms", 250)
	assert.Equal(t, LevelWarn, l.level)
	assert.Equal(t, "slow query", l.msg)
	assert.Equal(t, map[string]any{"ms": 250}, l.fields)

	Error(l, "failed")
	assert.Equal(t, LevelError, l.level)
	assert.Nil(t, l.fields)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "level(9)", Level(9).String())
}

func TestKeyVals(t *testing.T) {
	kv := KeyVals(map[string]any{"a": 1})
	assert.Equal(t, []any{"a", 1}, kv)
}
