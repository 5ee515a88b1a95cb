// Package tracker keeps the registry of download and export tasks and
// advances each task's state machine from the worker's event stream.
//
// Events for one identity are applied in arrival order. A task is created
// on the first event that names it and stays in the registry until it is
// dismissed, so finished work remains visible until a collaborator clears
// it.
package tracker

import (
	"fmt"
	"time"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// Identity 任务在注册表中的键。下载任务的 ID 为章节 ID，导出任务为 uuid
type Identity struct {
	Kind event.Kind
	ID   string
}

func (i Identity) String() string { return fmt.Sprintf("%s/%s", i.Kind, i.ID) }

// Phase 仅 pdf 导出有两个阶段
type Phase string

const (
	PhaseNone     Phase = ""
	PhaseCreating Phase = "CREATING"
	PhaseMerging  Phase = "MERGING"
)

// Task is the registry record of one job. Values handed out by the
// registry are copies.
type Task struct {
	Kind   event.Kind
	ID     string
	Status Status
	Phase  Phase
	Title  string

	Current    uint32
	Total      uint32
	Percentage float64

	// ImageErrors counts ImageError events of the current run.
	ImageErrors    int
	LastImageError string

	ErrorMessage string
	// Recovered marks a task first seen through a non-start event.
	Recovered bool

	CreatedAt time.Time
	UpdatedAt time.Time

	seq uint64
}

func (t Task) Identity() Identity { return Identity{Kind: t.Kind, ID: t.ID} }

func (t Task) IsTerminal() bool { return t.Status.IsTerminal() }

// Indeterminate reports whether the task is busy without numeric progress,
// i.e. a pdf export in its merge phase.
func (t Task) Indeterminate() bool {
	return t.Kind == event.KindExportPdf && t.Phase == PhaseMerging && t.Status == StatusStarted
}

func (t Task) String() string {
	s := fmt.Sprintf("%s: %s %s %d/%d %.1f%%", t.Kind, t.Title, t.Status, t.Current, t.Total, t.Percentage)
	if t.Phase != PhaseNone {
		s += " " + string(t.Phase)
	}
	if t.ErrorMessage != "" {
		s += " " + t.ErrorMessage
	}
	return s
}

// setTitle keeps the first non-empty title.
func (t *Task) setTitle(title string) bool {
	if title == "" || t.Title != "" {
		return false
	}
	t.Title = title
	return true
}

// reset puts the task back into the initial state of its kind for a re-run.
func (t *Task) reset() {
	t.Status = initialStatus(t.Kind)
	t.Phase = initialPhase(t.Kind)
	t.Current = 0
	t.Total = 0
	t.Percentage = 0
	t.ImageErrors = 0
	t.LastImageError = ""
	t.ErrorMessage = ""
	t.Recovered = false
}

// Summary is the process-wide download summary fed by aggregate events.
type Summary struct {
	TotalDownloaded   uint32
	TotalExpected     uint32
	OverallPercentage float64
	Throughput        string
	UpdatedAt         time.Time
}

// ThroughputString renders the latest speed, "-" before the first report.
func (s Summary) ThroughputString() string {
	if s.Throughput == "" {
		return "-"
	}
	return s.Throughput
}

// ChangeType 注册表变更类型
type ChangeType int

const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeRemoved
	ChangeSummary
	ChangeWarning
)

func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	case ChangeSummary:
		return "summary"
	case ChangeWarning:
		return "warning"
	}
	return "unknown"
}

// Change is pushed to subscribers after every registry mutation.
type Change struct {
	Type    ChangeType
	Task    Task
	Summary Summary
	Warning string
}
