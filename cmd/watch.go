package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wxnacy/jmcomic-cli/internal/config"
	"github.com/wxnacy/jmcomic-cli/internal/dto"
)

var watchReq = dto.NewWatchReq()

// bindWatchDefaults 未在命令行指定的参数使用配置中的值
func bindWatchDefaults(cmd *cobra.Command, req *dto.WatchReq) {
	cfg := config.Get()
	if !cmd.Flags().Changed("follow") {
		req.Follow = cfg.Feed.Follow
	}
	if !cmd.Flags().Changed("from-start") {
		req.FromStart = cfg.Feed.FromStart
	}
	if !cmd.Flags().Changed("poll") {
		req.Poll = cfg.Feed.Poll
	}
	if !cmd.Flags().Changed("hide-finished") {
		req.HideFinished = cfg.Display.HideFinished
	}
	if !cmd.Flags().Changed("bar-width") {
		req.BarWidth = cfg.Display.BarWidth
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		req.Plain = true
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch [event-file...]",
	Short: "跟踪事件日志并显示任务看板",
	Example: `  jmcomic watch                          跟踪配置中的事件文件
  jmcomic watch ~/events.ndjson          跟踪指定文件
  jmcomic simulate - | jmcomic watch -   从标准输入读取`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watchReq.GlobalReq = *globalReq
		watchReq.EventFiles = args
		bindWatchDefaults(cmd, watchReq)
		for _, a := range args {
			// 标准输入被事件流占用，看板无法读取按键
			if a == "-" {
				watchReq.Plain = true
			}
		}

		ctx, cancel := signalContext()
		defer cancel()
		return GetTaskHandler().Watch(ctx, watchReq)
	},
}

func init() {
	watchCmd.Flags().BoolVarP(&watchReq.Follow, "follow", "f", true, "读到文件末尾后继续等待")
	watchCmd.Flags().BoolVar(&watchReq.FromStart, "from-start", true, "从文件开头读取")
	watchCmd.Flags().BoolVar(&watchReq.Poll, "poll", false, "使用轮询代替 inotify")
	watchCmd.Flags().BoolVar(&watchReq.Plain, "plain", false, "逐行输出，不显示看板")
	watchCmd.Flags().BoolVar(&watchReq.HideFinished, "hide-finished", false, "隐藏已结束任务")
	watchCmd.Flags().IntVar(&watchReq.BarWidth, "bar-width", 40, "进度条宽度")
	rootCmd.AddCommand(watchCmd)
}
