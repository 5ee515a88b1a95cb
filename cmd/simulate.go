package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wxnacy/jmcomic-cli/internal/config"
	"github.com/wxnacy/jmcomic-cli/internal/dto"
)

var simulateReq = dto.NewSimulateReq()

func bindSimulateDefaults(cmd *cobra.Command, req *dto.SimulateReq) {
	cfg := config.Get().Simulate
	flags := cmd.Flags()
	if !flags.Changed("title") {
		req.ComicTitle = cfg.ComicTitle
	}
	if !flags.Changed("chapters") {
		req.Chapters = cfg.Chapters
	}
	if !flags.Changed("images") {
		req.Images = cfg.Images
	}
	if !flags.Changed("rate") {
		req.Rate = cfg.Rate
	}
	if !flags.Changed("image-error-every") {
		req.ImageErrorEvery = cfg.ImageErrorEvery
	}
	if !flags.Changed("fail-chapter") {
		req.FailChapter = cfg.FailChapter
	}
	if !flags.Changed("no-cbz") {
		req.NoCbz = !cfg.ExportCbz
	}
	if !flags.Changed("no-pdf") {
		req.NoPdf = !cfg.ExportPdf
	}
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [event-file|-]",
	Short: "模拟下载 worker，输出事件流",
	Example: `  jmcomic simulate                       追加到配置中的事件文件
  jmcomic simulate - --rate 0            尽快输出到标准输出`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simulateReq.GlobalReq = *globalReq
		simulateReq.Output = config.GetEventFile()
		if len(args) > 0 {
			simulateReq.Output = args[0]
		}
		bindSimulateDefaults(cmd, simulateReq)

		ctx, cancel := signalContext()
		defer cancel()
		return GetTaskHandler().Simulate(ctx, simulateReq)
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.StringVarP(&simulateReq.ComicTitle, "title", "t", "", "漫画标题")
	flags.IntVar(&simulateReq.Chapters, "chapters", 3, "章节数")
	flags.IntVar(&simulateReq.Images, "images", 20, "每章图片数")
	flags.Float64Var(&simulateReq.Rate, "rate", 40, "每秒事件数，0 不限速")
	flags.IntVar(&simulateReq.ImageErrorEvery, "image-error-every", 0, "每 n 张图片失败一张")
	flags.IntVar(&simulateReq.FailChapter, "fail-chapter", 0, "以失败结束的章节序号")
	flags.BoolVar(&simulateReq.NoCbz, "no-cbz", false, "不导出 cbz")
	flags.BoolVar(&simulateReq.NoPdf, "no-pdf", false, "不导出 pdf")
	flags.BoolVar(&simulateReq.SplitMergeToken, "split-merge-token", false, "pdf 合并阶段使用新的 uuid")
	flags.BoolVarP(&simulateReq.Append, "append", "a", true, "追加写入事件文件")
	rootCmd.AddCommand(simulateCmd)
}
