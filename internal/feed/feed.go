// Package feed turns worker output into event.Message streams. The worker
// writes one JSON object per line:
//
//	{"channel":"download-event","payload":{"event":"ChapterStart","data":{"chapterId":1,"total":20}}}
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
	"github.com/wxnacy/go-tools"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// Options 控制事件日志的读取方式
type Options struct {
	// Follow 读到文件末尾后继续等待新行
	Follow bool
	// FromStart 从文件开头读取，否则只读取新追加的行
	FromStart bool
	Poll      bool
	// OnError receives lines that are not valid messages. Nil drops them.
	OnError func(error)
}

func (o Options) report(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

func parse(line string, opts Options) (event.Message, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return event.Message{}, false
	}
	msg, err := event.ParseLine([]byte(line))
	if err != nil {
		opts.report(err)
		return event.Message{}, false
	}
	return msg, true
}

// Tail reads the event log at path. Without Follow the returned channel is
// closed at end of file; with Follow it stays open until ctx ends.
func Tail(ctx context.Context, path string, opts Options) (<-chan event.Message, error) {
	if !opts.Follow && !tools.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrEventFileNotFound, path)
	}
	cfg := tail.Config{
		Follow:    opts.Follow,
		ReOpen:    opts.Follow,
		Poll:      opts.Poll,
		MustExist: !opts.Follow,
		Logger:    tail.DiscardingLogger,
	}
	if !opts.FromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("tail %s: %w", path, err)
	}

	out := make(chan event.Message)
	go func() {
		defer close(out)
		defer t.Cleanup()
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-t.Lines:
				if !ok {
					return
				}
				if line.Err != nil {
					opts.report(line.Err)
					continue
				}
				msg, ok := parse(line.Text, opts)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Read streams messages from r until EOF, e.g. a pipe from the worker.
func Read(ctx context.Context, r io.Reader, opts Options) <-chan event.Message {
	out := make(chan event.Message)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			msg, ok := parse(scanner.Text(), opts)
			if !ok {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			opts.report(err)
		}
	}()
	return out
}

// Merge multiplexes several sources into one queue. Order within each
// source is kept; sources interleave freely.
func Merge(ctx context.Context, sources ...<-chan event.Message) <-chan event.Message {
	out := make(chan event.Message)
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src <-chan event.Message) {
			defer wg.Done()
			for msg := range src {
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}(src)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
