package event

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(channel, payload string) Message {
	return Message{Channel: channel, Payload: json.RawMessage(payload)}
}

func TestDecode_DownloadVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
	}{
		{
			name:    "chapter pending",
			payload: `{"event":"ChapterPending","data":{"chapterId":1,"comicTitle":"Comic","chapterTitle":"Ch.1"}}`,
			want:    ChapterPending{ChapterID: 1, ComicTitle: "Comic", ChapterTitle: "Ch.1"},
		},
		{
			name:    "chapter start",
			payload: `{"event":"ChapterStart","data":{"chapterId":1,"total":20}}`,
			want:    ChapterStart{ChapterID: 1, Total: 20},
		},
		{
			name:    "chapter end without error",
			payload: `{"event":"ChapterEnd","data":{"chapterId":1,"errMsg":null}}`,
			want:    ChapterEnd{ChapterID: 1},
		},
		{
			name:    "image success",
			payload: `{"event":"ImageSuccess","data":{"chapterId":1,"url":"u","current":3}}`,
			want:    ImageSuccess{ChapterID: 1, URL: "u", Current: 3},
		},
		{
			name:    "overall speed",
			payload: `{"event":"OverallSpeed","data":{"speed":"1.25MB/s"}}`,
			want:    OverallSpeed{Speed: "1.25MB/s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode(msg(ChannelDownload, tt.payload))
			require.NoError(t, err)
			assert.Equal(t, KindDownload, env.Kind)
			assert.Equal(t, tt.want, env.Event)
		})
	}
}

func TestDecode_ChapterEndWithError(t *testing.T) {
	env, err := Decode(msg(ChannelDownload, `{"event":"ChapterEnd","data":{"chapterId":7,"errMsg":"network error"}}`))
	require.NoError(t, err)

	end, ok := env.Event.(ChapterEnd)
	require.True(t, ok)
	require.NotNil(t, end.ErrMsg)
	assert.Equal(t, "network error", *end.ErrMsg)
	assert.Equal(t, "7", env.TaskID())
}

func TestDecode_ChannelSelectsVocabulary(t *testing.T) {
	// "Start" only exists in the cbz vocabulary.
	env, err := Decode(msg(ChannelExportCbz, `{"event":"Start","data":{"uuid":"u1","comicTitle":"Comic","total":10}}`))
	require.NoError(t, err)
	assert.Equal(t, CbzStart{UUID: "u1", ComicTitle: "Comic", Total: 10}, env.Event)

	_, err = Decode(msg(ChannelExportPdf, `{"event":"Start","data":{"uuid":"u1","comicTitle":"Comic","total":10}}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	env, err = Decode(msg(ChannelExportPdf, `{"event":"MergeStart","data":{"uuid":"u2","comicTitle":"Comic"}}`))
	require.NoError(t, err)
	assert.Equal(t, KindExportPdf, env.Kind)
	assert.Equal(t, "u2", env.TaskID())
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		payload string
		reason  string
	}{
		{"unknown channel", "favorite-event", `{"event":"Start"}`, "unknown channel"},
		{"not json", ChannelDownload, `{`, "invalid envelope"},
		{"unknown variant", ChannelDownload, `{"event":"ChapterPaused","data":{"chapterId":1}}`, "unknown variant"},
		{"missing data", ChannelExportCbz, `{"event":"End"}`, "missing data"},
		{"missing identity", ChannelDownload, `{"event":"ChapterStart","data":{"total":3}}`, `missing field "chapterId"`},
		{"null identity", ChannelExportCbz, `{"event":"End","data":{"uuid":null}}`, `missing field "uuid"`},
		{"empty token", ChannelExportCbz, `{"event":"End","data":{"uuid":""}}`, "empty task id"},
		{"wrong type", ChannelDownload, `{"event":"ChapterStart","data":{"chapterId":1,"total":"many"}}`, "payload shape mismatch"},
		{"negative counter", ChannelExportPdf, `{"event":"CreateProgress","data":{"uuid":"u","current":-1}}`, "payload shape mismatch"},
		{"log without level", ChannelLog, `{"timestamp":"t","fields":{}}`, "log record without level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(msg(tt.channel, tt.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedEvent)

			var me *MalformedEventError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.reason, me.Reason)
		})
	}
}

func TestDecode_LogRecord(t *testing.T) {
	env, err := Decode(msg(ChannelLog, `{"timestamp":"2024-01-01T00:00:00+08:00","level":"WARN","fields":{"message":"slow"},"target":"jmcomic","filename":"a.rs","line_number":3}`))
	require.NoError(t, err)

	r, ok := env.Event.(LogRecord)
	require.True(t, ok)
	assert.Equal(t, "WARN", r.Level)
	assert.Equal(t, "slow", r.Message())
	assert.Equal(t, "", env.TaskID())
}

func TestEncode_RoundTripsThroughDecode(t *testing.T) {
	errMsg := "boom"
	events := []Event{
		ChapterEnd{ChapterID: 3, ErrMsg: &errMsg},
		CbzProgress{UUID: "u1", Current: 4},
		PdfMergeEnd{UUID: "u2"},
		OverallUpdate{DownloadedImageCount: 1, TotalImageCount: 2, Percentage: 50},
	}
	for _, e := range events {
		m, err := Encode(e)
		require.NoError(t, err)
		env, err := Decode(m)
		require.NoError(t, err)
		assert.Equal(t, e, env.Event)
	}
}

func TestParseLine(t *testing.T) {
	m, err := ParseLine([]byte(`{"channel":"export-cbz-event","payload":{"event":"End","data":{"uuid":"u1"}}}`))
	require.NoError(t, err)
	assert.Equal(t, ChannelExportCbz, m.Channel)

	_, err = ParseLine([]byte(`{"payload":{}}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}
