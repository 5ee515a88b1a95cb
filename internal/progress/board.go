package progress

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wxnacy/jmcomic-cli/internal/common"
	"github.com/wxnacy/jmcomic-cli/internal/tracker"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
	titleWidth      = 36
)

// ChangeMsg 注册表变更，由订阅方通过 program.Send 投递
type ChangeMsg tracker.Change

// DoneMsg 事件源已结束
type DoneMsg struct{ Err error }

type BoardOption func(*BoardModel)

func WithBarWidth(w int) BoardOption {
	return func(m *BoardModel) {
		if w > 0 {
			m.bar.Width = w
		}
	}
}

func WithHideFinished(hide bool) BoardOption {
	return func(m *BoardModel) { m.hideFinished = hide }
}

// BoardModel 任务看板：每个任务一行进度条，pdf 合并阶段显示 spinner
type BoardModel struct {
	view    tracker.View
	tasks   []tracker.Task
	summary tracker.Summary
	warning string

	selected     int
	hideFinished bool
	done         bool
	err          error
	quitting     bool

	bar     progress.Model
	spinner spinner.Model
	keys    KeyMap
	help    help.Model
}

func NewBoardModel(view tracker.View, opts ...BoardOption) BoardModel {
	m := BoardModel{
		view: view,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(defaultBarWidth),
			progress.WithoutPercentage(),
		),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(titleStyle),
		),
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

const changeBuffer = 256

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Attach 订阅注册表，把变更转发给 program，ctx 结束时自动取消订阅。
// 订阅回调可能运行在 Update 内（d/c 键），所以只写入缓冲区，由单独的 goroutine 调用 Send
func Attach(ctx context.Context, p Sender, view tracker.View) error {
	changes := make(chan tracker.Change, changeBuffer)
	err := view.Subscribe(ctx, func(c tracker.Change) {
		if c.Type == tracker.ChangeWarning {
			select {
			case changes <- c:
			case <-ctx.Done():
			}
			return
		}
		// 看板每次都读取完整快照，缓冲区满时丢弃的变更会被下一次覆盖
		select {
		case changes <- c:
		default:
		}
	})
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case c := <-changes:
				p.Send(ChangeMsg(c))
			}
		}
	}()
	return nil
}

func (m BoardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Exit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Dismiss):
			if t, ok := m.Selected(); ok && t.IsTerminal() {
				m.view.Dismiss(t.Kind, t.ID)
				m.refresh()
			}
		case key.Matches(msg, m.keys.Clear):
			if m.view.DismissTerminal() > 0 {
				m.refresh()
			}
		case key.Matches(msg, m.keys.Hide):
			m.hideFinished = !m.hideFinished
			m.refresh()
		}
		return m, nil

	case ChangeMsg:
		if msg.Type == tracker.ChangeWarning {
			m.warning = msg.Warning
			return m, nil
		}
		m.refresh()
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - titleWidth - 40
		if m.bar.Width > maxBarWidth {
			m.bar.Width = maxBarWidth
		}
		if m.bar.Width < 10 {
			m.bar.Width = 10
		}
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// refresh 重新读取快照，选中行尽量保持在同一个任务上
func (m *BoardModel) refresh() {
	var cur tracker.Identity
	prev, hadSelection := m.Selected()
	if hadSelection {
		cur = prev.Identity()
	}

	all := m.view.Snapshot()
	m.tasks = all[:0]
	for _, t := range all {
		if m.hideFinished && t.IsTerminal() {
			continue
		}
		m.tasks = append(m.tasks, t)
	}
	m.summary = m.view.Summary()

	if hadSelection {
		for i, t := range m.tasks {
			if t.Identity() == cur {
				m.selected = i
				return
			}
		}
	}
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Selected 当前选中的任务
func (m BoardModel) Selected() (tracker.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return tracker.Task{}, false
	}
	return m.tasks[m.selected], true
}

func (m BoardModel) Tasks() []tracker.Task { return m.tasks }

func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("任务列表"))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(infoStyle.Render("暂无任务"))
		b.WriteString("\n")
	}
	for i, t := range m.tasks {
		b.WriteString(m.renderTask(i, t))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render(SummaryLine(m.summary)))
	b.WriteString("\n")

	if m.warning != "" {
		b.WriteString(warnStyle.Render("! " + m.warning))
		b.WriteString("\n")
	}
	if m.done {
		msg := "事件源已结束"
		if m.err != nil {
			msg += ": " + m.err.Error()
		}
		b.WriteString(infoStyle.Render(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func (m BoardModel) renderTask(i int, t tracker.Task) string {
	cursor := "  "
	name := common.PadRight(KindLabel(t.Kind)+" "+displayTitle(t), titleWidth)
	if i == m.selected {
		cursor = selectStyle.Render("> ")
		name = selectStyle.Render(name)
	}

	var bar string
	switch {
	case t.Indeterminate():
		bar = m.spinner.View() + strings.Repeat(" ", max(m.bar.Width-1, 0))
	default:
		bar = strings.TrimLeft(m.bar.ViewAs(t.Percentage/100), " ")
	}

	return cursor + name + " " + bar + " " + renderStatus(t) + " " + infoStyle.Render(Detail(t))
}
