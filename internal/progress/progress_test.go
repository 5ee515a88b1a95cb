package progress

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/tracker"
)

func newTracker(t *testing.T, events ...event.Event) *tracker.Tracker {
	t.Helper()
	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	tr := tracker.New(tracker.WithLogger(l))
	for _, e := range events {
		msg, err := event.Encode(e)
		require.NoError(t, err)
		require.NoError(t, tr.Handle(context.Background(), msg))
	}
	return tr
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(m BoardModel, msg tea.Msg) BoardModel {
	next, _ := m.Update(msg)
	return next.(BoardModel)
}

func TestDetail(t *testing.T) {
	tests := []struct {
		name string
		task tracker.Task
		want string
	}{
		{
			name: "pending",
			task: tracker.Task{Kind: event.KindDownload, Status: tracker.StatusPending},
			want: "等待中",
		},
		{
			name: "active with errors",
			task: tracker.Task{Kind: event.KindDownload, Status: tracker.StatusActive, Current: 3, Total: 20, Percentage: 15, ImageErrors: 2},
			want: "3/20 15.0% 失败图片:2",
		},
		{
			name: "merging",
			task: tracker.Task{Kind: event.KindExportPdf, Status: tracker.StatusStarted, Phase: tracker.PhaseMerging},
			want: "合并中",
		},
		{
			name: "failed recovered",
			task: tracker.Task{Kind: event.KindExportCbz, Status: tracker.StatusFailed, Current: 1, Total: 0, Recovered: true, ErrorMessage: "export failed"},
			want: "1/? 0.0% (恢复) export failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detail(tt.task))
		})
	}
}

func TestLine(t *testing.T) {
	task := tracker.Task{Kind: event.KindExportPdf, ID: "u1", Title: "Comic", Status: tracker.StatusStarted, Phase: tracker.PhaseCreating, Current: 1, Total: 4, Percentage: 25}
	assert.Equal(t, "[PDF u1] Comic CREATING/STARTED 1/4 25.0%", Line(task))
	assert.Equal(t, "总进度 0/? 0.0%  速度 -", SummaryLine(tracker.Summary{}))
}

func TestBoard_RendersTasks(t *testing.T) {
	tr := newTracker(t,
		event.ChapterPending{ChapterID: 1, ComicTitle: "Comic", ChapterTitle: "Ch1"},
		event.ChapterStart{ChapterID: 1, Total: 4},
		event.ImageSuccess{ChapterID: 1, Current: 1},
		event.PdfCreateStart{UUID: "p", ComicTitle: "Comic", Total: 2},
		event.PdfCreateEnd{UUID: "p"},
		event.PdfMergeStart{UUID: "p", ComicTitle: "Comic"},
		event.OverallSpeed{Speed: "1.50MB/s"},
	)
	m := NewBoardModel(tr.Registry())
	require.Len(t, m.Tasks(), 2)

	view := m.View()
	assert.Contains(t, view, "Comic - Ch1")
	assert.Contains(t, view, "1/4 25.0%")
	assert.Contains(t, view, "合并中")
	assert.Contains(t, view, "1.50MB/s")
}

func TestBoard_SelectAndDismiss(t *testing.T) {
	tr := newTracker(t,
		event.CbzStart{UUID: "a", ComicTitle: "A", Total: 1},
		event.CbzEnd{UUID: "a"},
		event.CbzStart{UUID: "b", ComicTitle: "B", Total: 1},
	)
	m := NewBoardModel(tr.Registry())

	// b is still running, d is a no-op
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)
	m = update(m, keyRune('d'))
	assert.Len(t, m.Tasks(), 2)

	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(m, keyRune('d'))
	require.Len(t, m.Tasks(), 1)
	assert.Equal(t, "b", m.Tasks()[0].ID)
	assert.Equal(t, 1, tr.Registry().Len())
}

func TestBoard_ClearFinished(t *testing.T) {
	tr := newTracker(t,
		event.ChapterPending{ChapterID: 1, ChapterTitle: "x"},
		event.ChapterStart{ChapterID: 1, Total: 1},
		event.ChapterEnd{ChapterID: 1, ErrMsg: nil},
		event.ChapterPending{ChapterID: 2, ChapterTitle: "y"},
	)
	m := NewBoardModel(tr.Registry())
	require.Len(t, m.Tasks(), 2)

	m = update(m, keyRune('c'))
	require.Len(t, m.Tasks(), 1)
	assert.Equal(t, "2", m.Tasks()[0].ID)
}

func TestBoard_HideFinished(t *testing.T) {
	tr := newTracker(t,
		event.CbzStart{UUID: "a", ComicTitle: "A", Total: 1},
		event.CbzError{UUID: "a"},
		event.CbzStart{UUID: "b", ComicTitle: "B", Total: 1},
	)
	m := NewBoardModel(tr.Registry(), WithHideFinished(true))
	require.Len(t, m.Tasks(), 1)

	m = update(m, keyRune('h'))
	assert.Len(t, m.Tasks(), 2)
	// hiding never touches the registry
	assert.Equal(t, 2, tr.Registry().Len())
}

func TestBoard_ChangeAndWarning(t *testing.T) {
	tr := newTracker(t)
	m := NewBoardModel(tr.Registry())
	assert.Contains(t, m.View(), "暂无任务")

	msg, err := event.Encode(event.CbzStart{UUID: "a", ComicTitle: "A", Total: 2})
	require.NoError(t, err)
	require.NoError(t, tr.Handle(context.Background(), msg))
	m = update(m, ChangeMsg{Type: tracker.ChangeCreated})
	assert.Len(t, m.Tasks(), 1)

	m = update(m, ChangeMsg{Type: tracker.ChangeWarning, Warning: "bad line"})
	assert.Contains(t, m.View(), "bad line")

	m = update(m, DoneMsg{})
	assert.Contains(t, m.View(), "事件源已结束")

	next, cmd := m.Update(keyRune('q'))
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestAttach_ForwardsChanges(t *testing.T) {
	tr := newTracker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sent := make(chanSender, 8)
	require.NoError(t, Attach(ctx, sent, tr.Registry()))

	msg, err := event.Encode(event.CbzStart{UUID: "a", ComicTitle: "A", Total: 1})
	require.NoError(t, err)
	require.NoError(t, tr.Handle(ctx, msg))
	tr.Report(assert.AnError)

	var got []tracker.ChangeType
	for len(got) < 2 {
		select {
		case m := <-sent:
			got = append(got, m.(ChangeMsg).Type)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []tracker.ChangeType{tracker.ChangeCreated, tracker.ChangeWarning}, got)
}

func TestPrinter_PrintsStateChangesOnly(t *testing.T) {
	tr := newTracker(t)
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, tr.Registry().Subscribe(ctx, p.Handle))

	for _, e := range []event.Event{
		event.CbzStart{UUID: "a", ComicTitle: "A", Total: 3},
		event.CbzProgress{UUID: "a", Current: 1},
		event.CbzProgress{UUID: "a", Current: 2},
		event.CbzEnd{UUID: "a"},
	} {
		msg, err := event.Encode(e)
		require.NoError(t, err)
		require.NoError(t, tr.Handle(ctx, msg))
	}
	assert.Error(t, tr.Handle(ctx, event.Message{Channel: "nope"}))
	tr.Registry().Dismiss(event.KindExportCbz, "a")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[CBZ a] A STARTED 0/3 0.0%", lines[0])
	assert.Equal(t, "[CBZ a] A COMPLETED 2/3 66.7%", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "warning: "))
	assert.Equal(t, "[CBZ a] removed", lines[3])
}

func TestPrintSnapshot(t *testing.T) {
	tr := newTracker(t,
		event.ChapterPending{ChapterID: 7, ComicTitle: "Comic", ChapterTitle: "Ch7"},
	)
	var buf bytes.Buffer
	PrintSnapshot(&buf, tr.Registry().Snapshot(), tr.Registry().Summary())
	out := buf.String()
	assert.Contains(t, out, "Comic - Ch7")
	assert.Contains(t, out, "PENDING")
	assert.Contains(t, out, "总进度")
}
