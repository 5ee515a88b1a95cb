package event

// LogRecord 是 worker 通过 log-event 通道转发的一条日志
type LogRecord struct {
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Fields     map[string]any `json:"fields"`
	Target     string         `json:"target"`
	Filename   string         `json:"filename"`
	LineNumber int            `json:"line_number"`
}

func (LogRecord) Kind() Kind   { return KindLog }
func (LogRecord) Name() string { return "Log" }
func (LogRecord) isEvent()     {}

// Message returns the "message" field if the worker attached one.
func (r LogRecord) Message() string {
	if m, ok := r.Fields["message"].(string); ok {
		return m
	}
	return ""
}
