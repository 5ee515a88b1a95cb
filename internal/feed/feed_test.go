package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

func collect(t *testing.T, ch <-chan event.Message) []event.Message {
	t.Helper()
	var out []event.Message
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, msg)
		case <-timeout:
			t.Fatalf("timed out after %d messages", len(out))
		}
	}
}

func writeLog(t *testing.T, events ...event.Event) string {
	t.Helper()
	var b strings.Builder
	w := NewWriter(&b)
	for _, e := range events {
		require.NoError(t, w.Emit(e))
	}
	b.WriteString("not json\n\n")
	p := filepath.Join(t.TempDir(), "events.ndjson")
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func TestTail_ReadsWholeFile(t *testing.T) {
	path := writeLog(t,
		event.ChapterStart{ChapterID: 1, Total: 2},
		event.CbzEnd{UUID: "u"},
	)

	var errs []error
	ch, err := Tail(context.Background(), path, Options{
		FromStart: true,
		OnError:   func(err error) { errs = append(errs, err) },
	})
	require.NoError(t, err)

	msgs := collect(t, ch)
	require.Len(t, msgs, 2)
	assert.Equal(t, event.ChannelDownload, msgs[0].Channel)
	assert.Equal(t, event.ChannelExportCbz, msgs[1].Channel)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], event.ErrMalformedEvent)
}

func TestTail_MissingFileWithoutFollow(t *testing.T) {
	_, err := Tail(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{FromStart: true})
	assert.ErrorIs(t, err, ErrEventFileNotFound)
}

func TestRead_AndMerge(t *testing.T) {
	var a, b strings.Builder
	wa, wb := NewWriter(&a), NewWriter(&b)
	for i := uint32(1); i <= 3; i++ {
		require.NoError(t, wa.Emit(event.ImageSuccess{ChapterID: 1, Current: i}))
		require.NoError(t, wb.Emit(event.CbzProgress{UUID: "u", Current: i}))
	}

	ctx := context.Background()
	merged := Merge(ctx,
		Read(ctx, strings.NewReader(a.String()), Options{}),
		Read(ctx, strings.NewReader(b.String()), Options{}),
	)
	msgs := collect(t, merged)
	require.Len(t, msgs, 6)

	// per-source order survives the merge
	var downloads, exports []uint32
	for _, m := range msgs {
		env, err := event.Decode(m)
		require.NoError(t, err)
		switch e := env.Event.(type) {
		case event.ImageSuccess:
			downloads = append(downloads, e.Current)
		case event.CbzProgress:
			exports = append(exports, e.Current)
		}
	}
	assert.Equal(t, []uint32{1, 2, 3}, downloads)
	assert.Equal(t, []uint32{1, 2, 3}, exports)
}
