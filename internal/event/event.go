// Package event decodes the messages pushed by the worker process.
//
// Every channel carries a tagged union encoded as
//
//	{"event": "<Variant>", "data": {...}}
//
// and the channel name decides which vocabulary the tag is looked up in.
// The log channel is the exception: its payload is a flat log record.
package event

import (
	"encoding/json"
	"time"
)

// Kind 任务类型，由事件所在的通道决定
type Kind string

const (
	KindDownload  Kind = "download"
	KindExportCbz Kind = "export-cbz"
	KindExportPdf Kind = "export-pdf"
	KindLog       Kind = "log"
)

const (
	ChannelDownload  = "download-event"
	ChannelExportCbz = "export-cbz-event"
	ChannelExportPdf = "export-pdf-event"
	ChannelLog       = "log-event"
)

var channelKinds = map[string]Kind{
	ChannelDownload:  KindDownload,
	ChannelExportCbz: KindExportCbz,
	ChannelExportPdf: KindExportPdf,
	ChannelLog:       KindLog,
}

// KindOfChannel returns the job kind carried by channel.
func KindOfChannel(channel string) (Kind, bool) {
	k, ok := channelKinds[channel]
	return k, ok
}

// Channel returns the channel name the kind is delivered on.
func (k Kind) Channel() string {
	for ch, kind := range channelKinds {
		if kind == k {
			return ch
		}
	}
	return ""
}

func (k Kind) String() string { return string(k) }

// Event is one decoded variant of a channel vocabulary.
type Event interface {
	Kind() Kind
	// Name is the variant tag as it appears on the wire.
	Name() string
	isEvent()
}

// Keyed is implemented by events that belong to a single task. Aggregate
// download signals and log records are not keyed.
type Keyed interface {
	Event
	TaskID() string
}

// Message is one line of the worker stream before decoding.
type Message struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope is a decoded message.
type Envelope struct {
	Channel    string
	Kind       Kind
	Event      Event
	ReceivedAt time.Time
}

// TaskID returns the identity field of the event, or "" for unkeyed events.
func (e Envelope) TaskID() string {
	if k, ok := e.Event.(Keyed); ok {
		return k.TaskID()
	}
	return ""
}

// wire is the tagged form shared by the task channels.
type wire struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
