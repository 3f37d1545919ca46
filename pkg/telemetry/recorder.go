package telemetry

import (
	"context"
	"sync"
)

// Recorder keeps events in memory. Tests use it to assert on emitted events.
type Recorder struct {
	mu       sync.Mutex
	calls    []CallEvent
	mappings []MappingEvent
}

func (r *Recorder) RecordCall(_ context.Context, event CallEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, event)
}

func (r *Recorder) RecordMapping(_ context.Context, event MappingEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mappings = append(r.mappings, event)
}

// Calls returns a copy of the recorded call events.
func (r *Recorder) Calls() []CallEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]CallEvent(nil), r.calls...)
}

// Mappings returns a copy of the recorded mapping events.
func (r *Recorder) Mappings() []MappingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]MappingEvent(nil), r.mappings...)
}
