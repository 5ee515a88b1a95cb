package event

import (
	"errors"
	"fmt"
)

// ErrMalformedEvent 消息无法匹配所在通道的任何事件格式
var ErrMalformedEvent = errors.New("malformed event")

// MalformedEventError describes why a message was dropped.
type MalformedEventError struct {
	Channel string
	Variant string
	Reason  string
	Err     error
}

func (e *MalformedEventError) Error() string {
	msg := fmt.Sprintf("malformed event on %q", e.Channel)
	if e.Variant != "" {
		msg += fmt.Sprintf(" (%s)", e.Variant)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedEventError) Unwrap() error { return e.Err }

func (e *MalformedEventError) Is(target error) bool { return target == ErrMalformedEvent }

func malformed(channel, variant, reason string, err error) error {
	return &MalformedEventError{Channel: channel, Variant: variant, Reason: reason, Err: err}
}
