package progress

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/wxnacy/jmcomic-cli/internal/common"
	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/tracker"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	selectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	statusStyles = map[tracker.Status]lipgloss.Style{
		tracker.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		tracker.StatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		tracker.StatusStarted:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		tracker.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		tracker.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// KindLabel 任务类型的显示名
func KindLabel(k event.Kind) string {
	switch k {
	case event.KindDownload:
		return "下载"
	case event.KindExportCbz:
		return "CBZ"
	case event.KindExportPdf:
		return "PDF"
	}
	return string(k)
}

// StatusLabel pdf 导出时带上阶段
func StatusLabel(t tracker.Task) string {
	if t.Phase != tracker.PhaseNone {
		return fmt.Sprintf("%s/%s", t.Phase, t.Status)
	}
	return string(t.Status)
}

func renderStatus(t tracker.Task) string {
	style, ok := statusStyles[t.Status]
	if !ok {
		return StatusLabel(t)
	}
	return style.Render(StatusLabel(t))
}

func displayTitle(t tracker.Task) string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

// Detail 任务右侧的补充信息：进度、图片错误数、失败原因
func Detail(t tracker.Task) string {
	var s string
	switch {
	case t.Indeterminate():
		s = "合并中"
	case t.Status == tracker.StatusPending:
		s = "等待中"
	default:
		s = fmt.Sprintf("%s %s", common.FormatCount(t.Current, t.Total), common.FormatPercent(t.Percentage))
	}
	if t.ImageErrors > 0 {
		s += fmt.Sprintf(" 失败图片:%d", t.ImageErrors)
	}
	if t.Recovered {
		s += " (恢复)"
	}
	if t.ErrorMessage != "" {
		s += " " + t.ErrorMessage
	}
	return s
}

// Line 单行纯文本，用于非终端输出
func Line(t tracker.Task) string {
	return fmt.Sprintf("[%s %s] %s %s %s",
		KindLabel(t.Kind), t.ID, displayTitle(t), StatusLabel(t), Detail(t))
}

func SummaryLine(s tracker.Summary) string {
	return fmt.Sprintf("总进度 %s %s  速度 %s",
		common.FormatCount(s.TotalDownloaded, s.TotalExpected),
		common.FormatPercent(s.OverallPercentage),
		s.ThroughputString(),
	)
}
