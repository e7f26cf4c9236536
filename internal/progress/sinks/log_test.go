package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/showcase-publisher/internal/progress"
)

func TestLogSinkLevelsByOutcome(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewLogSink(zap.New(core))
	runID := progress.UUIDToBytes(uuid.New())

	batch := []progress.Event{
		{RunID: runID, TS: time.Now(), Stage: progress.StageFetch, Outcome: progress.OutcomeOK, URL: "u", Bytes: 10},
		{RunID: runID, TS: time.Now(), Stage: progress.StageSummarize, Outcome: progress.OutcomeDegraded, URL: "u"},
		{RunID: runID, TS: time.Now(), Stage: progress.StageCreateEntry, Outcome: progress.OutcomeFailed, URL: "u", Note: "fault 403"},
	}
	require.NoError(t, sink.Consume(context.Background(), batch))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "fault 403", entries[2].ContextMap()["note"])
	assert.Equal(t, "CREATE_ENTRY", entries[2].ContextMap()["stage"])
	assert.Equal(t, int64(10), entries[0].ContextMap()["bytes"])
}

func TestRecorderStages(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	runID := progress.UUIDToBytes(uuid.New())
	require.NoError(t, rec.Consume(context.Background(), []progress.Event{
		{RunID: runID, Stage: progress.StageSetField, URL: "a", Note: "description_short"},
		{RunID: runID, Stage: progress.StageSetField, URL: "b"},
		{RunID: runID, Stage: progress.StageFetch, URL: "a"},
	}))

	assert.Len(t, rec.Events(), 3)
	assert.Len(t, rec.Stages("a", progress.StageSetField), 1)
	assert.Empty(t, rec.Stages("c", progress.StageFetch))
	require.NoError(t, rec.Close(context.Background()))
}
