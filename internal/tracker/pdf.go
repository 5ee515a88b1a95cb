package tracker

import (
	"github.com/sirupsen/logrus"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// applyPdf advances a pdf export through its two phases. Creating counts
// chapters; Merging has no numeric progress, so its counters stay zero.
func (tr *Tracker) applyPdf(t *Task, e event.Event, log *logrus.Entry) bool {
	switch e := e.(type) {
	case event.PdfCreateStart:
		t.setTitle(e.ComicTitle)
		t.setTotal(e.Total)
		return true
	case event.PdfCreateProgress:
		if !tr.inPhase(t, PhaseCreating, e, log) {
			return false
		}
		return tr.advance(t, e.Current, log)
	case event.PdfCreateError:
		if !tr.inPhase(t, PhaseCreating, e, log) {
			return false
		}
		return tr.fail(t, log)
	case event.PdfCreateEnd:
		if !tr.inPhase(t, PhaseCreating, e, log) {
			return false
		}
		t.Phase = PhaseMerging
		t.clearProgress()
		return true
	case event.PdfMergeStart:
		changed := t.setTitle(e.ComicTitle)
		if t.Phase == PhaseCreating {
			// CreateEnd never arrived, the merge itself proves creation ended
			log.Debug("merge started without CreateEnd")
			t.Phase = PhaseMerging
			t.clearProgress()
			changed = true
		}
		return changed
	case event.PdfMergeError:
		if !tr.inPhase(t, PhaseMerging, e, log) {
			return false
		}
		return tr.fail(t, log)
	case event.PdfMergeEnd:
		if !tr.inPhase(t, PhaseMerging, e, log) {
			return false
		}
		return tr.transition(t, StatusCompleted, log)
	}
	return false
}

func (tr *Tracker) inPhase(t *Task, phase Phase, e event.Event, log *logrus.Entry) bool {
	if t.Phase == phase {
		return true
	}
	log.Debugf("ignored %s during phase %s", e.Name(), t.Phase)
	return false
}

func (tr *Tracker) fail(t *Task, log *logrus.Entry) bool {
	if !tr.transition(t, StatusFailed, log) {
		return false
	}
	t.ErrorMessage = tr.opts.ExportErrorMessage
	if t.Phase != PhaseNone {
		log = log.WithField("phase", t.Phase)
	}
	log.Error("export failed")
	return true
}
