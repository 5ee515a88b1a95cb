package tracker

import (
	"github.com/sirupsen/logrus"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

const defaultChapterErrorMessage = "chapter download failed"

// applyDownload advances a chapter download: Pending -> Active ->
// Completed | Failed. Image errors are counted but only ChapterEnd decides
// the outcome.
func (tr *Tracker) applyDownload(t *Task, e event.Event, log *logrus.Entry) bool {
	switch e := e.(type) {
	case event.ChapterPending:
		t.setTitle(e.Title())
		return true
	case event.ChapterStart:
		tr.transition(t, StatusActive, log)
		t.setTotal(e.Total)
		return true
	case event.ImageSuccess:
		return tr.advance(t, e.Current, log)
	case event.ImageError:
		t.ImageErrors++
		t.LastImageError = e.ErrMsg
		log.WithField("url", e.URL).Warnf("image download failed: %s", e.ErrMsg)
		return true
	case event.ChapterEnd:
		if e.ErrMsg == nil {
			return tr.transition(t, StatusCompleted, log)
		}
		if !tr.transition(t, StatusFailed, log) {
			return false
		}
		t.ErrorMessage = *e.ErrMsg
		if t.ErrorMessage == "" {
			t.ErrorMessage = defaultChapterErrorMessage
		}
		log.Errorf("chapter download failed: %s", t.ErrorMessage)
		return true
	}
	return false
}

func (tr *Tracker) applySummary(e event.Event) bool {
	switch e := e.(type) {
	case event.OverallUpdate:
		tr.registry.updateSummary(func(s *Summary) {
			s.TotalDownloaded = e.DownloadedImageCount
			s.TotalExpected = e.TotalImageCount
			s.OverallPercentage = clampPercent(e.Percentage)
		})
		return true
	case event.OverallSpeed:
		tr.registry.updateSummary(func(s *Summary) {
			s.Throughput = e.Speed
		})
		return true
	}
	return false
}
