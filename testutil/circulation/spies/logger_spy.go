package spies

import (
	"sync"
)

// Log levels captured by LoggerSpy.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LoggerSpy is a ledger.Logger that records messages per level. Arguments are dropped.
type LoggerSpy struct {
	mu     sync.Mutex
	levels map[string][]string
}

// NewLoggerSpy creates an empty LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{levels: map[string][]string{}}
}

func (s *LoggerSpy) add(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[level] = append(s.levels[level], msg)
}

func (s *LoggerSpy) Debug(msg string, _ ...any) { s.add(LevelDebug, msg) }
func (s *LoggerSpy) Info(msg string, _ ...any)  { s.add(LevelInfo, msg) }
func (s *LoggerSpy) Warn(msg string, _ ...any)  { s.add(LevelWarn, msg) }
func (s *LoggerSpy) Error(msg string, _ ...any) { s.add(LevelError, msg) }

// Messages returns a copy of the messages logged at level.
func (s *LoggerSpy) Messages(level string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.levels[level]...)
}
