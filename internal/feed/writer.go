package feed

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// Writer appends events to an event log, one message per line. It is safe
// for concurrent use so several producers can share one log.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) Emit(e event.Event) error {
	msg, err := event.Encode(e)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(msg)
}
