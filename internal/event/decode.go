package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type variant struct {
	// required lists payload keys that must be present, identity first.
	required []string
	decode   func(json.RawMessage) (Event, error)
}

func decodeAs[T Event](data json.RawMessage) (Event, error) {
	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}

var vocabularies = map[Kind]map[string]variant{
	KindDownload: {
		NameChapterPending: {[]string{"chapterId"}, decodeAs[ChapterPending]},
		NameChapterStart:   {[]string{"chapterId", "total"}, decodeAs[ChapterStart]},
		NameChapterEnd:     {[]string{"chapterId"}, decodeAs[ChapterEnd]},
		NameImageSuccess:   {[]string{"chapterId", "current"}, decodeAs[ImageSuccess]},
		NameImageError:     {[]string{"chapterId"}, decodeAs[ImageError]},
		NameOverallUpdate:  {[]string{"downloadedImageCount", "totalImageCount"}, decodeAs[OverallUpdate]},
		NameOverallSpeed:   {[]string{"speed"}, decodeAs[OverallSpeed]},
	},
	KindExportCbz: {
		NameCbzStart:    {[]string{"uuid", "total"}, decodeAs[CbzStart]},
		NameCbzProgress: {[]string{"uuid", "current"}, decodeAs[CbzProgress]},
		NameCbzError:    {[]string{"uuid"}, decodeAs[CbzError]},
		NameCbzEnd:      {[]string{"uuid"}, decodeAs[CbzEnd]},
	},
	KindExportPdf: {
		NamePdfCreateStart:    {[]string{"uuid", "total"}, decodeAs[PdfCreateStart]},
		NamePdfCreateProgress: {[]string{"uuid", "current"}, decodeAs[PdfCreateProgress]},
		NamePdfCreateError:    {[]string{"uuid"}, decodeAs[PdfCreateError]},
		NamePdfCreateEnd:      {[]string{"uuid"}, decodeAs[PdfCreateEnd]},
		NamePdfMergeStart:     {[]string{"uuid"}, decodeAs[PdfMergeStart]},
		NamePdfMergeError:     {[]string{"uuid"}, decodeAs[PdfMergeError]},
		NamePdfMergeEnd:       {[]string{"uuid"}, decodeAs[PdfMergeEnd]},
	},
}

// Decode validates msg and resolves it to a variant of its channel's
// vocabulary. Every failure is a *MalformedEventError.
func Decode(msg Message) (Envelope, error) {
	kind, ok := KindOfChannel(msg.Channel)
	if !ok {
		return Envelope{}, malformed(msg.Channel, "", "unknown channel", nil)
	}
	env := Envelope{Channel: msg.Channel, Kind: kind, ReceivedAt: time.Now()}

	if kind == KindLog {
		var r LogRecord
		if err := json.Unmarshal(msg.Payload, &r); err != nil {
			return Envelope{}, malformed(msg.Channel, "", "invalid log record", err)
		}
		if r.Level == "" {
			return Envelope{}, malformed(msg.Channel, "", "log record without level", nil)
		}
		env.Event = r
		return env, nil
	}

	var w wire
	if err := json.Unmarshal(msg.Payload, &w); err != nil {
		return Envelope{}, malformed(msg.Channel, "", "invalid envelope", err)
	}
	v, ok := vocabularies[kind][w.Event]
	if !ok {
		return Envelope{}, malformed(msg.Channel, w.Event, "unknown variant", nil)
	}

	data := bytes.TrimSpace(w.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Envelope{}, malformed(msg.Channel, w.Event, "missing data", nil)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Envelope{}, malformed(msg.Channel, w.Event, "data is not an object", err)
	}
	for _, key := range v.required {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return Envelope{}, malformed(msg.Channel, w.Event, fmt.Sprintf("missing field %q", key), nil)
		}
	}

	e, err := v.decode(data)
	if err != nil {
		return Envelope{}, malformed(msg.Channel, w.Event, "payload shape mismatch", err)
	}
	if k, ok := e.(Keyed); ok && k.TaskID() == "" {
		return Envelope{}, malformed(msg.Channel, w.Event, "empty task id", nil)
	}
	env.Event = e
	return env, nil
}

// Encode is the inverse of Decode and is what the stand-in worker writes.
func Encode(e Event) (Message, error) {
	var (
		payload []byte
		err     error
	)
	if r, ok := e.(LogRecord); ok {
		payload, err = json.Marshal(r)
	} else {
		var data []byte
		data, err = json.Marshal(e)
		if err != nil {
			return Message{}, err
		}
		payload, err = json.Marshal(wire{Event: e.Name(), Data: data})
	}
	if err != nil {
		return Message{}, err
	}
	return Message{Channel: e.Kind().Channel(), Payload: payload}, nil
}

// ParseLine decodes one NDJSON line of the event log into a Message.
func ParseLine(line []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return Message{}, malformed("", "", "invalid line", err)
	}
	if msg.Channel == "" {
		return Message{}, malformed("", "", "line without channel", nil)
	}
	return msg, nil
}
