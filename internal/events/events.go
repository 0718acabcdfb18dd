// Package events is the fire-and-forget analytics sink. The wizard and
// services emit structured events; nothing ever reads a response and delivery
// failures are swallowed.
package events

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Event is one structured analytics record.
type Event struct {
	Category string
	Action   string
	Label    string
	Data     map[string]interface{}
}

// Sink consumes events. Implementations must not block the caller for long
// and must never return delivery errors to business logic.
type Sink interface {
	Track(Event)
}

// Func adapts a function to a Sink.
type Func func(Event)

func (f Func) Track(e Event) { f(e) }

// Discard drops everything.
var Discard Sink = Func(func(Event) {})

// MemorySink records events for inspection in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (m *MemorySink) Track(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of everything tracked so far.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// FileSink writes events as JSON lines. A TUI owns stdout, so the sink logs
// to a file instead.
type FileSink struct {
	logger *slog.Logger
	f      *os.File
}

// NewFileSink opens (appending) the event log at path, creating parent
// directories as needed.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{
		logger: slog.New(slog.NewJSONHandler(f, nil)),
		f:      f,
	}, nil
}

func (s *FileSink) Track(e Event) {
	attrs := []interface{}{
		"category", e.Category,
		"action", e.Action,
		"label", e.Label,
	}
	for k, v := range e.Data {
		attrs = append(attrs, k, v)
	}
	s.logger.Info("event", attrs...)
}

func (s *FileSink) Close() error { return s.f.Close() }
