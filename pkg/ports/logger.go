package ports

import "fmt"

// Level is a log severity.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int8(l))
	}
}

// Logger records structured messages.
type Logger interface {
	Log(level Level, msg string, fields map[string]any)
}

// Debug logs msg at debug level with alternating key/value pairs.
func Debug(l Logger, msg string, keyvals ...any) { l.Log(LevelDebug, msg, Fields(keyvals...)) }

// Info logs msg at info level with alternating key/value pairs.
func Info(l Logger, msg string, keyvals ...any) { l.Log(LevelInfo, msg, Fields(keyvals...)) }

// Warn logs msg at warn level with alternating key/value pairs.
func Warn(l Logger, msg string, keyvals ...any) { l.Log(LevelWarn, msg, Fields(keyvals...)) }

// Error logs msg at error level with alternating key/value pairs.
func Error(l Logger, msg string, keyvals ...any) { l.Log(LevelError, msg, Fields(keyvals...)) }

// Fields converts alternating key/value pairs into a map. Non-string keys
// are formatted with %v; a trailing key without a value maps to nil.
func Fields(keyvals ...any) map[string]any {
	if len(keyvals) == 0 {
		return nil
	}
	fields := make(map[string]any, (len(keyvals)+1)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		var val any
		if i+1 < len(keyvals) {
			val = keyvals[i+1]
		}
		fields[key] = val
	}
	return fields
}

// KeyVals flattens fields into alternating key/value pairs in unspecified
// order.
func KeyVals(fields map[string]any) []any {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}
