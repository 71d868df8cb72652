package runner

import (
	"bufio"
	"encoding/json"
	"io"
	"time"
)

// ndjsonLogger writes one JSON object per line and flushes after each one so
// a crashed run still leaves its trail.
type ndjsonLogger struct {
	w   *bufio.Writer
	now func() time.Time
}

type logLine struct {
	TS    time.Time      `json:"ts"`
	Level string         `json:"level"`
	Scope string         `json:"scope"`
	Msg   string         `json:"msg"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func newNDJSONLogger(w io.Writer) *ndjsonLogger {
	if w == nil {
		w = io.Discard
	}
	return &ndjsonLogger{w: bufio.NewWriter(w), now: time.Now}
}

func (l *ndjsonLogger) write(level, scope, msg string, meta map[string]any) {
	line := logLine{TS: l.now(), Level: level, Scope: scope, Msg: msg, Meta: meta}
	b, _ := json.Marshal(line)
	l.w.Write(b)
	l.w.WriteByte('\n')
	l.w.Flush()
}

func (l *ndjsonLogger) info(scope, msg string, meta map[string]any) {
	l.write("info", scope, msg, meta)
}
func (l *ndjsonLogger) warn(scope, msg string, meta map[string]any) {
	l.write("warn", scope, msg, meta)
}
func (l *ndjsonLogger) fail(scope, msg string, meta map[string]any) {
	l.write("error", scope, msg, meta)
}
