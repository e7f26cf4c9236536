package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct {
	events   []Event
	err      error
	closeErr error
}

func (s *countingSink) Consume(_ context.Context, batch []Event) error {
	s.events = append(s.events, batch...)
	return s.err
}

func (s *countingSink) Close(context.Context) error { return s.closeErr }

func TestFanoutDeliversToAllSinks(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	failing := &countingSink{err: errors.New("sink down")}
	healthy := &countingSink{}
	fan := NewFanout(zap.New(core), failing, healthy)

	fan.Emit(context.Background(), validEvent())

	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
	assert.Equal(t, 1, logs.FilterMessage("Progress sink failed").Len())
}

func TestFanoutDropsInvalidEvents(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	sink := &countingSink{}
	fan := NewFanout(zap.New(core), sink)

	fan.Emit(context.Background(), Event{Stage: StageFetch})

	assert.Empty(t, sink.events)
	assert.Equal(t, 1, logs.FilterMessage("Dropping invalid progress event").Len())
}

func TestFanoutCloseJoinsErrors(t *testing.T) {
	t.Parallel()

	fan := NewFanout(nil, &countingSink{closeErr: errors.New("a")}, &countingSink{}, &countingSink{closeErr: errors.New("b")})
	err := fan.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")

	require.NoError(t, NewFanout(nil).Close(context.Background()))
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	var e Emitter = Discard{}
	e.Emit(context.Background(), validEvent())
}
