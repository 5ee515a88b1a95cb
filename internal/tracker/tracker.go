package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/logger"
)

const DefaultExportErrorMessage = "export failed"

type Options struct {
	// ExportErrorMessage is stored on export tasks failed by an Error
	// variant, which carries no message of its own.
	ExportErrorMessage string
	Logger             *logrus.Logger
	Registry           *Registry
}

type Option func(*Options)

func WithExportErrorMessage(msg string) Option {
	return func(o *Options) { o.ExportErrorMessage = msg }
}

func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithRegistry(r *Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// Tracker runs the pipeline for every message: decode, resolve identity,
// apply the kind's state machine, recompute metrics, publish.
type Tracker struct {
	opts     Options
	registry *Registry
	log      *logrus.Logger
}

func New(opts ...Option) *Tracker {
	o := Options{ExportErrorMessage: DefaultExportErrorMessage}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ExportErrorMessage == "" {
		o.ExportErrorMessage = DefaultExportErrorMessage
	}
	if o.Logger == nil {
		o.Logger = logger.GetLogger()
	}
	if o.Registry == nil {
		o.Registry = NewRegistry()
	}
	return &Tracker{opts: o, registry: o.Registry, log: o.Logger}
}

func (tr *Tracker) Registry() *Registry { return tr.registry }

// Handle processes one message. A malformed message is reported to the log
// and to subscribers, then returned; the tracker state is untouched.
func (tr *Tracker) Handle(ctx context.Context, msg event.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env, err := event.Decode(msg)
	if err != nil {
		tr.log.WithField("channel", msg.Channel).Warn(err.Error())
		tr.registry.warn(err.Error())
		return err
	}
	tr.Apply(env)
	return nil
}

// Report surfaces a problem found before decoding, such as an unreadable
// line in the event log.
func (tr *Tracker) Report(err error) {
	if err == nil {
		return
	}
	tr.log.Warn(err.Error())
	tr.registry.warn(err.Error())
}

// Apply feeds an already decoded envelope into the registry.
func (tr *Tracker) Apply(env event.Envelope) {
	switch e := env.Event.(type) {
	case event.LogRecord:
		tr.forwardLog(e)
	case event.Keyed:
		tr.applyKeyed(e)
	default:
		tr.applySummary(e)
	}
}

func (tr *Tracker) applyKeyed(e event.Keyed) {
	id := identityOf(e)
	log := tr.log.WithFields(logrus.Fields{
		"kind":  id.Kind,
		"id":    id.ID,
		"event": e.Name(),
	})

	task, changed := tr.registry.update(id, func(t *Task, found bool) bool {
		resolved := resolve(t, found, e, log)
		if t.IsTerminal() {
			log.WithField("status", t.Status).Debug("ignored event for finished task")
			return resolved
		}
		var applied bool
		switch id.Kind {
		case event.KindDownload:
			applied = tr.applyDownload(t, e, log)
		case event.KindExportCbz:
			applied = tr.applyCbz(t, e, log)
		case event.KindExportPdf:
			applied = tr.applyPdf(t, e, log)
		}
		return resolved || applied
	})
	if changed {
		log.WithFields(logrus.Fields{
			"status":  task.Status,
			"current": task.Current,
			"total":   task.Total,
		}).Debug("task updated")
	}
}

func (tr *Tracker) transition(t *Task, target Status, log *logrus.Entry) bool {
	if err := t.Status.validateTransition(t.Kind, target); err != nil {
		log.Debugf("ignored: %v", err)
		return false
	}
	t.Status = target
	return true
}

func (tr *Tracker) advance(t *Task, current uint32, log *logrus.Entry) bool {
	moved, clamped := t.advance(current)
	if clamped {
		log.Debugf("current %d exceeds total %d, clamped", current, t.Total)
	}
	if !moved {
		log.Debugf("stale current %d, keeping %d", current, t.Current)
	}
	return moved
}

// Run handles messages until msgs is closed or ctx ends. Malformed
// messages never stop the loop.
func (tr *Tracker) Run(ctx context.Context, msgs <-chan event.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := tr.Handle(ctx, msg); err != nil && !errors.Is(err, event.ErrMalformedEvent) {
				return err
			}
		}
	}
}

var logLevels = map[string]logrus.Level{
	"TRACE": logrus.TraceLevel,
	"DEBUG": logrus.DebugLevel,
	"INFO":  logrus.InfoLevel,
	"WARN":  logrus.WarnLevel,
	"ERROR": logrus.ErrorLevel,
}

// forwardLog re-emits a worker log record through our logger so both end
// up in the same file.
func (tr *Tracker) forwardLog(r event.LogRecord) {
	level, ok := logLevels[strings.ToUpper(r.Level)]
	if !ok {
		level = logrus.InfoLevel
	}
	fields := logrus.Fields{"source": "worker"}
	for k, v := range r.Fields {
		if k == "message" {
			continue
		}
		fields[k] = v
	}
	if r.Target != "" {
		fields["target"] = r.Target
	}
	if r.Filename != "" {
		fields["file"] = r.Filename
		fields["line"] = r.LineNumber
	}
	msg := r.Message()
	if msg == "" {
		msg = r.Target
	}
	tr.log.WithFields(fields).Log(level, msg)
}
