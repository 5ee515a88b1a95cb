package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wxnacy/jmcomic-cli/internal/dto"
)

var replayReq = dto.NewReplayReq()

var replayCmd = &cobra.Command{
	Use:   "replay [event-file|-]",
	Short: "读取完整事件日志并输出任务快照",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replayReq.GlobalReq = *globalReq
		if len(args) > 0 {
			replayReq.Input = args[0]
		}
		ctx, cancel := signalContext()
		defer cancel()
		return GetTaskHandler().Replay(ctx, replayReq)
	},
}

func init() {
	replayCmd.Flags().BoolVarP(&replayReq.Stream, "stream", "s", false, "同时逐行打印状态变化")
	rootCmd.AddCommand(replayCmd)
}
