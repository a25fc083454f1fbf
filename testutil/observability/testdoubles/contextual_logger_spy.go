package testdoubles

import (
	"context"
	"sync"
)

// LogRecord is one captured log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// Attr returns the value logged for key, if any.
func (r LogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// ContextualLoggerSpy captures contextual and plain log calls.
// It satisfies both eventstore.Logger and eventstore.ContextualLogger.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: args})
}

func (s *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

func (s *ContextualLoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *ContextualLoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *ContextualLoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *ContextualLoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

// Records returns a copy of all captured records.
func (s *ContextualLoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]LogRecord(nil), s.records...)
}

// Find returns the first record with level and message.
func (s *ContextualLoggerSpy) Find(level, message string) (LogRecord, bool) {
	for _, r := range s.Records() {
		if r.Level == level && r.Message == message {
			return r, true
		}
	}

	return LogRecord{}, false
}

func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	_, ok := s.Find("info", message)
	return ok
}

func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	_, ok := s.Find("warn", message)
	return ok
}

func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	_, ok := s.Find("error", message)
	return ok
}
