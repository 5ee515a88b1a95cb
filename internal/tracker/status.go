package tracker

import (
	"fmt"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// Status 任务状态。下载任务使用 Pending/Active，导出任务使用 Started
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func (s Status) String() string { return string(s) }

// IsTerminal reports whether no event other than a restart may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

var transitions = map[event.Kind]map[Status][]Status{
	event.KindDownload: {
		// the worker can fail a chapter before it knows the image count
		StatusPending: {StatusActive, StatusFailed},
		StatusActive:  {StatusCompleted, StatusFailed},
	},
	event.KindExportCbz: {
		StatusStarted: {StatusCompleted, StatusFailed},
	},
	event.KindExportPdf: {
		StatusStarted: {StatusCompleted, StatusFailed},
	},
}

func initialStatus(kind event.Kind) Status {
	if kind == event.KindDownload {
		return StatusPending
	}
	return StatusStarted
}

func initialPhase(kind event.Kind) Phase {
	if kind == event.KindExportPdf {
		return PhaseCreating
	}
	return PhaseNone
}

// validateTransition checks target against the edges of kind's machine.
func (s Status) validateTransition(kind event.Kind, target Status) error {
	for _, next := range transitions[kind][s] {
		if next == target {
			return nil
		}
	}
	return fmt.Errorf("invalid %s status transition from %s to %s", kind, s, target)
}
