package tracker

import (
	"github.com/sirupsen/logrus"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// isStart reports whether e begins a (re-)run of its task.
func isStart(e event.Event) bool {
	switch e.(type) {
	case event.ChapterPending, event.ChapterStart, event.CbzStart, event.PdfCreateStart:
		return true
	}
	return false
}

func identityOf(e event.Keyed) Identity {
	return Identity{Kind: e.Kind(), ID: e.TaskID()}
}

// resolve prepares the record before the kind's machine sees e: fresh
// records get their initial state, start events reset existing ones and
// anything else arriving first produces a recovered record.
func resolve(t *Task, found bool, e event.Keyed, log *logrus.Entry) bool {
	start := isStart(e)
	switch {
	case !found:
		t.reset()
		if !start {
			t.Recovered = true
			recoverState(t, e)
			log.Warn("event for unknown task, tracking it as recovered")
		}
		return true
	case start:
		prev := t.Status
		switch {
		case prev.IsTerminal():
			log.WithField("previous", prev).Info("task restarted")
		case !naturalStart(prev, e):
			log.WithField("previous", prev).Warn("restarting task that is still in flight")
		}
		t.reset()
		return true
	}
	return false
}

// naturalStart is true for the start event that normally follows prev.
func naturalStart(prev Status, e event.Event) bool {
	_, ok := e.(event.ChapterStart)
	return ok && prev == StatusPending
}

// recoverState guesses where a task first seen mid-stream must be.
func recoverState(t *Task, e event.Event) {
	switch e.(type) {
	case event.ImageSuccess, event.ImageError, event.ChapterEnd:
		t.Status = StatusActive
	case event.PdfMergeStart, event.PdfMergeError, event.PdfMergeEnd:
		t.Phase = PhaseMerging
	}
}
