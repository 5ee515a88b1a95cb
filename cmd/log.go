package cmd

import (
	"fmt"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/wxnacy/jmcomic-cli/internal/config"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Tail log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile := config.GetLogFile()
		if logFile == "" || !config.Get().Logger.IsSave {
			fmt.Println("Log file not configured, set logger.isSave to true")
			return nil
		}

		t, err := tail.TailFile(logFile, tail.Config{
			Follow: true,
			ReOpen: true,
			Logger: tail.DiscardingLogger,
		})
		if err != nil {
			return fmt.Errorf("tail log file: %w", err)
		}
		defer t.Cleanup()

		ctx, cancel := signalContext()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return t.Stop()
			case line, ok := <-t.Lines:
				if !ok {
					return t.Err()
				}
				fmt.Println(line.Text)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
