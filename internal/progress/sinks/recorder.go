package sinks

import (
	"context"
	"sync"

	"github.com/JakeFAU/showcase-publisher/internal/progress"
)

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.RWMutex
	events []progress.Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Consume appends the batch.
func (r *Recorder) Consume(_ context.Context, batch []progress.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, batch...)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (r *Recorder) Close(context.Context) error {
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []progress.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]progress.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Stages returns the recorded events for url with the given stage.
func (r *Recorder) Stages(url string, stage progress.Stage) []progress.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []progress.Event
	for _, evt := range r.events {
		if evt.URL == url && evt.Stage == stage {
			out = append(out, evt)
		}
	}
	return out
}
