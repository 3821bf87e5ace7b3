package diagnostics

import (
	"log"
	"sync"
)

// Sink receives the events of the diagnostic trace. Implementations
// must be safe to call from multiple goroutines.
type Sink interface {
	Record(event Event)
}

type discardingSink struct{}

func (discardingSink) Record(event Event) {}

// DiscardingSink is a Sink that drops all events.
var DiscardingSink Sink = discardingSink{}

// InMemorySink is a Sink that stores all events in a list, in the order
// in which they were recorded. It can be used by tests to assert the
// order in which locks were acquired.
type InMemorySink struct {
	lock   sync.Mutex
	events []Event
}

var _ Sink = (*InMemorySink)(nil)

// NewInMemorySink creates an InMemorySink that contains no events.
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

// Record an event by appending it to the list.
func (s *InMemorySink) Record(event Event) {
	s.lock.Lock()
	s.events = append(s.events, event)
	s.lock.Unlock()
}

// Events returns a copy of all events recorded so far.
func (s *InMemorySink) Events() []Event {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Event(nil), s.events...)
}

// EventsForWorker returns a copy of the events recorded by a single
// worker.
func (s *InMemorySink) EventsForWorker(worker string) []Event {
	s.lock.Lock()
	defer s.lock.Unlock()
	var events []Event
	for _, event := range s.events {
		if event.Worker == worker {
			events = append(events, event)
		}
	}
	return events
}

type loggingSink struct {
	logger *log.Logger
}

// NewLoggingSink creates a Sink that writes every event to a logger,
// one line per event.
func NewLoggingSink(logger *log.Logger) Sink {
	return &loggingSink{
		logger: logger,
	}
}

func (s *loggingSink) Record(event Event) {
	s.logger.Print(event.String())
}

type teeSink struct {
	sinks []Sink
}

// NewTeeSink creates a Sink that forwards every event to all of the
// provided Sinks.
func NewTeeSink(sinks ...Sink) Sink {
	return &teeSink{
		sinks: sinks,
	}
}

func (s *teeSink) Record(event Event) {
	for _, sink := range s.sinks {
		sink.Record(event)
	}
}
