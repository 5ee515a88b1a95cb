package simulate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/tracker"
)

type sink struct {
	events []event.Event
	failAt int
}

func (s *sink) Emit(e event.Event) error {
	if s.failAt > 0 && len(s.events)+1 == s.failAt {
		return errors.New("disk full")
	}
	s.events = append(s.events, e)
	return nil
}

func (s *sink) names() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Name())
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	return l
}

func newWorker(cfg Config, out Emitter) *Worker {
	n := 0
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return New(cfg, out,
		WithLogger(quietLogger()),
		WithTokenFunc(func() string { n++; return fmt.Sprintf("token-%d", n) }),
		WithClock(func() time.Time { return fixed }),
		WithImageSize(1<<20),
	)
}

func replay(t *testing.T, events []event.Event) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(tracker.WithLogger(quietLogger()))
	for _, e := range events {
		msg, err := event.Encode(e)
		require.NoError(t, err)
		require.NoError(t, tr.Handle(context.Background(), msg))
	}
	return tr
}

func TestRun_EmissionOrder(t *testing.T) {
	s := &sink{}
	require.NoError(t, newWorker(Config{Chapters: 2, Images: 2}, s).Run(context.Background()))

	assert.Equal(t, []string{
		event.NameChapterPending, event.NameChapterPending,
		event.NameChapterStart,
		event.NameImageSuccess, event.NameOverallUpdate,
		event.NameImageSuccess, event.NameOverallUpdate,
		event.NameChapterEnd, "Log",
		event.NameChapterStart,
		event.NameImageSuccess, event.NameOverallUpdate,
		event.NameImageSuccess, event.NameOverallUpdate,
		event.NameChapterEnd, "Log",
		event.NameOverallSpeed,
	}, s.names())

	last := s.events[len(s.events)-1].(event.OverallSpeed)
	assert.Equal(t, "4.00MB/s", last.Speed)
}

func TestRun_FullSessionTracksToCompletion(t *testing.T) {
	s := &sink{}
	cfg := Config{ComicTitle: "Comic", Chapters: 3, Images: 4, ExportCbz: true, ExportPdf: true}
	require.NoError(t, newWorker(cfg, s).Run(context.Background()))

	tr := replay(t, s.events)
	snap := tr.Registry().Snapshot()
	require.Len(t, snap, 5)
	for _, task := range snap {
		assert.Equal(t, tracker.StatusCompleted, task.Status, task.String())
		assert.False(t, task.Recovered)
	}
	assert.Equal(t, "Comic - 第01话", snap[0].Title)
	assert.Equal(t, "token-1", snap[3].ID)
	assert.Equal(t, event.KindExportPdf, snap[4].Kind)
	assert.Equal(t, tracker.PhaseMerging, snap[4].Phase)

	sum := tr.Registry().Summary()
	assert.Equal(t, uint32(12), sum.TotalDownloaded)
	assert.Equal(t, float64(100), sum.OverallPercentage)
}

func TestRun_ImageErrorsAndFailedChapter(t *testing.T) {
	s := &sink{}
	cfg := Config{Chapters: 2, Images: 4, ImageErrorEvery: 4, FailChapter: 1}
	require.NoError(t, newWorker(cfg, s).Run(context.Background()))

	tr := replay(t, s.events)
	first, ok := tr.Registry().Get(tracker.Identity{Kind: event.KindDownload, ID: "1"})
	require.True(t, ok)
	assert.Equal(t, tracker.StatusFailed, first.Status)
	assert.Equal(t, "chapter download interrupted", first.ErrorMessage)
	assert.Equal(t, 1, first.ImageErrors)

	second, ok := tr.Registry().Get(tracker.Identity{Kind: event.KindDownload, ID: "2"})
	require.True(t, ok)
	assert.Equal(t, tracker.StatusFailed, second.Status)
	assert.Equal(t, "3/4 images downloaded", second.ErrorMessage)
	assert.Equal(t, uint32(3), second.Current)
}

func TestRun_SplitMergeToken(t *testing.T) {
	s := &sink{}
	cfg := Config{Chapters: 1, Images: 1, ExportPdf: true, SplitMergeToken: true}
	require.NoError(t, newWorker(cfg, s).Run(context.Background()))

	tr := replay(t, s.events)
	create, ok := tr.Registry().Get(tracker.Identity{Kind: event.KindExportPdf, ID: "token-1"})
	require.True(t, ok)
	assert.Equal(t, tracker.StatusStarted, create.Status)
	assert.Equal(t, tracker.PhaseMerging, create.Phase)

	merge, ok := tr.Registry().Get(tracker.Identity{Kind: event.KindExportPdf, ID: "token-2"})
	require.True(t, ok)
	assert.True(t, merge.Recovered)
	assert.Equal(t, tracker.StatusCompleted, merge.Status)
}

func TestRun_EmitError(t *testing.T) {
	s := &sink{failAt: 3}
	err := newWorker(Config{Chapters: 2, Images: 2}, s).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, s.events, 2)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &sink{}
	w := New(Config{Chapters: 1, Images: 1, Rate: 1}, s, WithLogger(quietLogger()))
	assert.Error(t, w.Run(ctx))
	assert.Empty(t, s.events)
}
