package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wxnacy/jmcomic-cli/internal/common"
	"github.com/wxnacy/jmcomic-cli/internal/tracker"
)

// Printer 非终端环境下的输出：只在任务出现、状态或阶段变化、移除时打印一行
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	last map[tracker.Identity]string
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, last: make(map[tracker.Identity]string)}
}

// Handle 可直接作为 Registry.Subscribe 的回调
func (p *Printer) Handle(c tracker.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch c.Type {
	case tracker.ChangeCreated, tracker.ChangeUpdated:
		id := c.Task.Identity()
		state := StatusLabel(c.Task)
		if p.last[id] == state {
			return
		}
		p.last[id] = state
		fmt.Fprintln(p.w, Line(c.Task))
	case tracker.ChangeRemoved:
		delete(p.last, c.Task.Identity())
		fmt.Fprintf(p.w, "[%s %s] removed\n", KindLabel(c.Task.Kind), c.Task.ID)
	case tracker.ChangeWarning:
		fmt.Fprintf(p.w, "warning: %s\n", c.Warning)
	}
}

// PrintSnapshot 以表格形式输出全部任务和汇总
func PrintSnapshot(w io.Writer, tasks []tracker.Task, summary tracker.Summary) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			KindLabel(t.Kind),
			t.ID,
			common.Truncate(displayTitle(t), titleWidth),
			StatusLabel(t),
			Detail(t),
			common.FormatTime(t.UpdatedAt, common.FMT_TIME),
		})
	}
	tb := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("类型", "ID", "标题", "状态", "进度", "更新时间").
		Rows(rows...)
	fmt.Fprintln(w, tb.String())
	fmt.Fprintln(w, SummaryLine(summary))
}
