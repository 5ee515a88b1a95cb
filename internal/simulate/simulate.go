// Package simulate is a stand-in for the download worker. It emits the
// same event streams the worker does, in the same order, so the tracker
// and the board can be exercised without a real comic source.
package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/wxnacy/jmcomic-cli/internal/common"
	"github.com/wxnacy/jmcomic-cli/internal/event"
	"github.com/wxnacy/jmcomic-cli/internal/logger"
)

// Emitter receives the generated events. feed.Writer is one.
type Emitter interface {
	Emit(e event.Event) error
}

type Config struct {
	ComicTitle string
	Chapters   int
	Images     int
	// Rate is events per second, <= 0 emits as fast as possible.
	Rate float64
	// ImageErrorEvery fails every n-th image of a chapter, 0 never.
	ImageErrorEvery int
	// FailChapter is the 1-based chapter that ends with an error, 0 none.
	FailChapter int
	ExportCbz   bool
	ExportPdf   bool
	// SplitMergeToken gives the pdf merge phase its own token.
	SplitMergeToken bool
	// FirstChapterID 章节 ID 起始值
	FirstChapterID int64
}

type Option func(*Worker)

func WithLogger(l *logrus.Logger) Option {
	return func(w *Worker) { w.log = l }
}

func WithTokenFunc(fn func() string) Option {
	return func(w *Worker) { w.newToken = fn }
}

func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// WithImageSize fixes the simulated size of every image in bytes.
func WithImageSize(n int) Option {
	return func(w *Worker) { w.imageSize = func() int { return n } }
}

type Worker struct {
	cfg     Config
	out     Emitter
	limiter *rate.Limiter
	log     *logrus.Logger

	newToken  func() string
	now       func() time.Time
	imageSize func() int

	downloaded uint32
	expected   uint32
	bytes      int
	lastTick   time.Time
}

func New(cfg Config, out Emitter, opts ...Option) *Worker {
	if cfg.Images <= 0 {
		cfg.Images = 1
	}
	if cfg.ComicTitle == "" {
		cfg.ComicTitle = "comic"
	}
	if cfg.FirstChapterID == 0 {
		cfg.FirstChapterID = 1
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	w := &Worker{
		cfg:       cfg,
		out:       out,
		limiter:   rate.NewLimiter(limit, 1),
		log:       logger.GetLogger(),
		newToken:  func() string { return uuid.New().String() },
		now:       time.Now,
		imageSize: func() int { return common.RandBetween(200<<10, 800<<10) },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run emits the whole session: every chapter is queued, then downloaded
// in order, then the comic is exported.
func (w *Worker) Run(ctx context.Context) error {
	w.lastTick = w.now()
	w.expected = uint32(w.cfg.Chapters * w.cfg.Images)

	for i := 0; i < w.cfg.Chapters; i++ {
		if err := w.emit(ctx, event.ChapterPending{
			ChapterID:    w.chapterID(i),
			ComicTitle:   w.cfg.ComicTitle,
			ChapterTitle: w.chapterTitle(i),
		}); err != nil {
			return err
		}
	}
	for i := 0; i < w.cfg.Chapters; i++ {
		if err := w.downloadChapter(ctx, i); err != nil {
			return err
		}
	}
	if err := w.speedTick(ctx, true); err != nil {
		return err
	}

	if w.cfg.ExportCbz {
		if err := w.exportCbz(ctx); err != nil {
			return err
		}
	}
	if w.cfg.ExportPdf {
		if err := w.exportPdf(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) chapterID(i int) int64 { return w.cfg.FirstChapterID + int64(i) }

func (w *Worker) chapterTitle(i int) string {
	return fmt.Sprintf("第%s话", common.FormatNumberWithHeadZeros(i+1, 2))
}

func (w *Worker) downloadChapter(ctx context.Context, i int) error {
	id := w.chapterID(i)
	if err := w.emit(ctx, event.ChapterStart{ChapterID: id, Total: uint32(w.cfg.Images)}); err != nil {
		return err
	}

	var current uint32
	for n := 1; n <= w.cfg.Images; n++ {
		url := fmt.Sprintf("https://cdn.example.com/media/photos/%d/%05d.webp", id, n)
		var e event.Event
		if w.cfg.ImageErrorEvery > 0 && n%w.cfg.ImageErrorEvery == 0 {
			e = event.ImageError{ChapterID: id, URL: url, ErrMsg: "unexpected status 502"}
		} else {
			current++
			w.downloaded++
			w.bytes += w.imageSize()
			e = event.ImageSuccess{ChapterID: id, URL: url, Current: current}
		}
		if err := w.emit(ctx, e); err != nil {
			return err
		}
		if err := w.emit(ctx, event.OverallUpdate{
			DownloadedImageCount: w.downloaded,
			TotalImageCount:      w.expected,
			Percentage:           float64(w.downloaded) / float64(w.expected) * 100,
		}); err != nil {
			return err
		}
		if err := w.speedTick(ctx, false); err != nil {
			return err
		}
	}

	end := event.ChapterEnd{ChapterID: id}
	if i+1 == w.cfg.FailChapter || current < uint32(w.cfg.Images) {
		msg := fmt.Sprintf("%d/%d images downloaded", current, w.cfg.Images)
		if i+1 == w.cfg.FailChapter {
			msg = "chapter download interrupted"
		}
		end.ErrMsg = &msg
	}
	if err := w.emit(ctx, end); err != nil {
		return err
	}
	return w.emitLog(ctx, "INFO", fmt.Sprintf("chapter %d finished", id), map[string]any{"chapterId": id})
}

// speedTick reports throughput once per second of wall time, or always when
// force is set.
func (w *Worker) speedTick(ctx context.Context, force bool) error {
	elapsed := w.now().Sub(w.lastTick)
	if !force && elapsed < time.Second {
		return nil
	}
	secs := elapsed.Seconds()
	if secs <= 0 {
		secs = 1
	}
	speed := float64(w.bytes) / secs / 1024 / 1024
	w.bytes = 0
	w.lastTick = w.now()
	return w.emit(ctx, event.OverallSpeed{Speed: fmt.Sprintf("%.2fMB/s", speed)})
}

func (w *Worker) exportCbz(ctx context.Context) error {
	token := w.newToken()
	total := uint32(w.cfg.Chapters)
	if err := w.emit(ctx, event.CbzStart{UUID: token, ComicTitle: w.cfg.ComicTitle, Total: total}); err != nil {
		return err
	}
	for n := uint32(1); n <= total; n++ {
		if err := w.emit(ctx, event.CbzProgress{UUID: token, Current: n}); err != nil {
			return err
		}
	}
	return w.emit(ctx, event.CbzEnd{UUID: token})
}

func (w *Worker) exportPdf(ctx context.Context) error {
	token := w.newToken()
	total := uint32(w.cfg.Chapters)
	if err := w.emit(ctx, event.PdfCreateStart{UUID: token, ComicTitle: w.cfg.ComicTitle, Total: total}); err != nil {
		return err
	}
	for n := uint32(1); n <= total; n++ {
		if err := w.emit(ctx, event.PdfCreateProgress{UUID: token, Current: n}); err != nil {
			return err
		}
	}
	if err := w.emit(ctx, event.PdfCreateEnd{UUID: token}); err != nil {
		return err
	}

	if w.cfg.SplitMergeToken {
		token = w.newToken()
	}
	if err := w.emit(ctx, event.PdfMergeStart{UUID: token, ComicTitle: w.cfg.ComicTitle}); err != nil {
		return err
	}
	return w.emit(ctx, event.PdfMergeEnd{UUID: token})
}

func (w *Worker) emitLog(ctx context.Context, level, msg string, fields map[string]any) error {
	f := map[string]any{"message": msg}
	for k, v := range fields {
		f[k] = v
	}
	return w.emit(ctx, event.LogRecord{
		Timestamp:  w.now().Format(time.RFC3339Nano),
		Level:      level,
		Fields:     f,
		Target:     "jmcomic::simulate",
		Filename:   "simulate.go",
		LineNumber: 0,
	})
}

func (w *Worker) emit(ctx context.Context, e event.Event) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := w.out.Emit(e); err != nil {
		w.log.WithField("event", e.Name()).Errorf("emit failed: %v", err)
		return fmt.Errorf("emit %s: %w", e.Name(), err)
	}
	return nil
}
