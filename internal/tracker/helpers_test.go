package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/logger"
)

func newTestTracker() *Tracker {
	return New(WithLogger(logger.Discard()))
}

func send(t *testing.T, tr *Tracker, events ...event.Event) {
	t.Helper()
	for _, e := range events {
		msg, err := event.Encode(e)
		require.NoError(t, err)
		require.NoError(t, tr.Handle(context.Background(), msg))
	}
}

func mustGet(t *testing.T, tr *Tracker, kind event.Kind, id string) Task {
	t.Helper()
	task, ok := tr.Registry().Get(Identity{Kind: kind, ID: id})
	require.True(t, ok, "task %s/%s not found", kind, id)
	return task
}

func strPtr(s string) *string { return &s }
