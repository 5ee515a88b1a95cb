package tracker

import (
	"github.com/sirupsen/logrus"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// applyCbz advances a cbz export: Started -> Completed | Failed.
func (tr *Tracker) applyCbz(t *Task, e event.Event, log *logrus.Entry) bool {
	switch e := e.(type) {
	case event.CbzStart:
		t.setTitle(e.ComicTitle)
		t.setTotal(e.Total)
		return true
	case event.CbzProgress:
		return tr.advance(t, e.Current, log)
	case event.CbzError:
		return tr.fail(t, log)
	case event.CbzEnd:
		return tr.transition(t, StatusCompleted, log)
	}
	return false
}
