package testkit

import (
	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// Record is one captured log call.
type Record struct {
	Level   ports.Level
	Message string
	Fields  map[string]any
}

// CapturingLogger records every log call in order.
type CapturingLogger struct {
	records []Record
}

var _ ports.Logger = (*CapturingLogger)(nil)

// NewCapturingLogger returns an empty CapturingLogger.
func NewCapturingLogger() *CapturingLogger {
	return &CapturingLogger{}
}

// Log implements ports.Logger.
func (l *CapturingLogger) Log(level ports.Level, msg string, fields map[string]any) {
	var copied map[string]any
	if len(fields) > 0 {
		copied = make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
	}
	l.records = append(l.records, Record{Level: level, Message: msg, Fields: copied})
}

func (l *CapturingLogger) Debug(msg string, keyvals ...any) { ports.Debug(l, msg, keyvals...) }
func (l *CapturingLogger) Info(msg string, keyvals ...any)  { ports.Info(l, msg, keyvals...) }
func (l *CapturingLogger) Warn(msg string, keyvals ...any)  { ports.Warn(l, msg, keyvals...) }
func (l *CapturingLogger) Error(msg string, keyvals ...any) { ports.Error(l, msg, keyvals...) }

// Records returns a copy of the captured records.
func (l *CapturingLogger) Records() []Record {
	return append([]Record(nil), l.records...)
}

// Messages returns the captured messages in order.
func (l *CapturingLogger) Messages() []string {
	msgs := make([]string, len(l.records))
	for i, r := range l.records {
		msgs[i] = r.Message
	}
	return msgs
}

// Last returns the most recent record.
func (l *CapturingLogger) Last() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Clear discards all records.
func (l *CapturingLogger) Clear() {
	l.records = nil
}
