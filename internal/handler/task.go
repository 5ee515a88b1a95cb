package handler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wxnacy/go-tools"

	"github.com/wxnacy/jmcomic-cli/internal/config"
	"github.com/wxnacy/jmcomic-cli/internal/dto"
	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/feed"
	"github.com/wxnacy/jmcomic-cli/internal/logger"
	"github.com/wxnacy/jmcomic-cli/internal/progress"
	"github.com/wxnacy/jmcomic-cli/internal/simulate"
	"github.com/wxnacy/jmcomic-cli/internal/tracker"
)

const stdinName = "-"

func NewTaskHandler() *TaskHandler {
	return &TaskHandler{
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// TaskHandler 连接事件源、tracker 与展示层
type TaskHandler struct {
	stdin  io.Reader
	stdout io.Writer
}

func (h *TaskHandler) SetIO(in io.Reader, out io.Writer) *TaskHandler {
	h.stdin = in
	h.stdout = out
	return h
}

func (h *TaskHandler) newTracker() *tracker.Tracker {
	return tracker.New(
		tracker.WithExportErrorMessage(config.Get().Tracker.ExportErrorMessage),
		tracker.WithLogger(logger.GetLogger()),
	)
}

// open 打开一个事件源，- 为标准输入
func (h *TaskHandler) open(ctx context.Context, name string, opts feed.Options) (<-chan event.Message, error) {
	if name == stdinName {
		return feed.Read(ctx, h.stdin, opts), nil
	}
	if opts.Follow {
		// 文件可能尚未创建，tail 需要目录存在才能等待
		if err := tools.DirExistsOrCreate(filepath.Dir(name)); err != nil {
			return nil, err
		}
	}
	return feed.Tail(ctx, name, opts)
}

func (h *TaskHandler) openAll(ctx context.Context, names []string, opts feed.Options) (<-chan event.Message, error) {
	sources := make([]<-chan event.Message, 0, len(names))
	for _, name := range names {
		src, err := h.open(ctx, name, opts)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return feed.Merge(ctx, sources...), nil
}

// Watch 持续跟踪事件日志。Plain 模式逐行打印，否则显示看板
func (h *TaskHandler) Watch(ctx context.Context, req *dto.WatchReq) error {
	files := req.EventFiles
	if len(files) == 0 {
		files = []string{config.GetEventFile()}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tr := h.newTracker()
	src, err := h.openAll(ctx, files, feed.Options{
		Follow:    req.Follow,
		FromStart: req.FromStart,
		Poll:      req.Poll,
		OnError:   tr.Report,
	})
	if err != nil {
		return err
	}
	logger.Debugf("watching %v follow=%v", files, req.Follow)

	if req.Plain {
		printer := progress.NewPrinter(h.stdout)
		if err := tr.Registry().Subscribe(ctx, printer.Handle); err != nil {
			return err
		}
		if err := tr.Run(ctx, src); err != nil && ctx.Err() == nil {
			return err
		}
		fmt.Fprintln(h.stdout, progress.SummaryLine(tr.Registry().Summary()))
		return nil
	}

	logger.Mute()
	defer logger.Init()

	model := progress.NewBoardModel(tr.Registry(),
		progress.WithBarWidth(req.BarWidth),
		progress.WithHideFinished(req.HideFinished),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(h.stdout))
	if err := progress.Attach(ctx, p, tr.Registry()); err != nil {
		return err
	}
	go func() {
		err := tr.Run(ctx, src)
		if ctx.Err() == nil {
			p.Send(progress.DoneMsg{Err: err})
		}
	}()
	_, err = p.Run()
	return err
}

// Replay 读完整个事件日志后输出快照
func (h *TaskHandler) Replay(ctx context.Context, req *dto.ReplayReq) error {
	name := req.Input
	if name == "" {
		name = config.GetEventFile()
	}
	tr := h.newTracker()
	src, err := h.open(ctx, name, feed.Options{FromStart: true, OnError: tr.Report})
	if err != nil {
		return err
	}
	if req.Stream {
		if err := tr.Registry().Subscribe(ctx, progress.NewPrinter(h.stdout).Handle); err != nil {
			return err
		}
	}
	if err := tr.Run(ctx, src); err != nil {
		return err
	}
	progress.PrintSnapshot(h.stdout, tr.Registry().Snapshot(), tr.Registry().Summary())
	return nil
}

// Simulate 运行模拟 worker，把事件写入文件或标准输出
func (h *TaskHandler) Simulate(ctx context.Context, req *dto.SimulateReq) error {
	var out io.Writer = h.stdout
	if req.Output != "" && req.Output != stdinName {
		if err := tools.DirExistsOrCreate(filepath.Dir(req.Output)); err != nil {
			return err
		}
		flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if req.Append {
			flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		f, err := os.OpenFile(req.Output, flag, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	cfg := simulate.Config{
		ComicTitle:      req.ComicTitle,
		Chapters:        req.Chapters,
		Images:          req.Images,
		Rate:            req.Rate,
		ImageErrorEvery: req.ImageErrorEvery,
		FailChapter:     req.FailChapter,
		ExportCbz:       !req.NoCbz,
		ExportPdf:       !req.NoPdf,
		SplitMergeToken: req.SplitMergeToken,
	}
	logger.Infof("simulating %d chapters x %d images to %s", cfg.Chapters, cfg.Images, req.Output)
	return simulate.New(cfg, feed.NewWriter(out)).Run(ctx)
}
