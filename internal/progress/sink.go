package progress

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Sink consumes batches of progress events. Implementations must be safe for
// repeated calls and honor ctx deadlines.
type Sink interface {
	Consume(ctx context.Context, batch []Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events so stages stay agnostic about where
// they end up.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}

// Fanout delivers every event to each sink in turn, on the caller's
// goroutine. Sink failures are logged and never reach the emitter.
type Fanout struct {
	sinks  []Sink
	logger *zap.Logger
}

var _ Emitter = (*Fanout)(nil)

// NewFanout wires sinks behind a single Emitter.
func NewFanout(logger *zap.Logger, sinks ...Sink) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{sinks: append([]Sink(nil), sinks...), logger: logger}
}

// Emit validates evt and hands it to every sink.
func (f *Fanout) Emit(ctx context.Context, evt Event) {
	if err := evt.Validate(); err != nil {
		f.logger.Warn("Dropping invalid progress event", zap.String("stage", string(evt.Stage)), zap.Error(err))
		return
	}
	batch := []Event{evt}
	for _, sink := range f.sinks {
		if err := sink.Consume(ctx, batch); err != nil {
			f.logger.Warn("Progress sink failed", zap.Error(err))
		}
	}
}

// Close closes every sink and joins their errors.
func (f *Fanout) Close(ctx context.Context) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is an Emitter that drops everything.
type Discard struct{}

// Emit implements Emitter.
func (Discard) Emit(context.Context, Event) {}
