package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"
)

// capture は TestLogger とその With 派生が共有する出力先
type capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *capture) write(line []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Write(line)
	c.buf.WriteByte('\n')
}

func (c *capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// TestLogger は1レコード1行のJSONとしてログをメモリに溜める Logger。
// テストでメッセージやフィールドを検証するのに使う
//
//	logger, _ := log.NewTestLogger(log.LevelDebug)
//	pre := preprocessing.NewPreprocessor(table, preprocessing.WithPreprocessorLogger(logger))
//	...
//	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationPreprocess))
type TestLogger struct {
	out    *capture
	level  Level
	fields map[string]interface{}
}

// NewTestLogger creates a TestLogger that keeps records at or above level.
// The returned buffer receives the raw JSON lines.
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	out := &capture{}
	return &TestLogger{out: out, level: level, fields: map[string]interface{}{}}, &out.buf
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.record(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.record(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.record(LevelWarn, msg, fields) }
func (t *TestLogger) Error(msg string, fields ...any) { t.record(LevelError, msg, fields) }

// With implements Logger.With. The child writes to the same buffer.
func (t *TestLogger) With(fields ...any) Logger {
	child := maps.Clone(t.fields)
	setPairs(child, fields)
	return &TestLogger{out: t.out, level: t.level, fields: child}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return level >= t.level
}

func (t *TestLogger) record(level Level, msg string, fields []any) {
	if !t.Enabled(context.Background(), level) {
		return
	}
	entry := maps.Clone(t.fields)
	entry["level"] = level.String()
	entry["message"] = msg

	// Error(msg, err, k, v...) のように先頭にエラーだけが置かれた形
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			entry[ErrAttrKey] = err.Error()
			fields = fields[1:]
		}
	}
	setPairs(entry, fields)

	line, err := json.Marshal(entry)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"message":%q,"marshal_error":%q}`, msg, err.Error()))
	}
	t.out.write(line)
}

// setPairs はキーと値の組を dst に書き込む。error 値は文字列にする
func setPairs(dst map[string]interface{}, pairs []any) {
	for i := 0; i+1 < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		value := pairs[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		dst[key] = value
	}
}

// GetLogEntries decodes every captured line. JSON numbers come back as float64.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	for _, line := range strings.Split(t.out.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether message appears anywhere in the output.
func (t *TestLogger) ContainsMessage(message string) bool {
	return strings.Contains(t.out.String(), message)
}

// ContainsField reports whether some record has key equal to value.
// Pass numbers as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v == value {
			return true
		}
	}
	return false
}

// TestLoggerProvider is a LoggerProvider whose named loggers all write to
// one TestLogger, tagged with ComponentKey.
type TestLoggerProvider struct {
	logger *TestLogger
}

// NewTestLoggerProvider creates a TestLoggerProvider.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buf := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, buf
}

func (p *TestLoggerProvider) GetLogger() Logger { return p.logger }

func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel only affects loggers handed out afterwards.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.level = level
}

// Logger returns the underlying TestLogger for assertions.
func (p *TestLoggerProvider) Logger() *TestLogger { return p.logger }
