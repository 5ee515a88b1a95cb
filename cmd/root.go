/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wxnacy/jmcomic-cli/cmd/initial"
	"github.com/wxnacy/jmcomic-cli/internal/config"
	"github.com/wxnacy/jmcomic-cli/internal/dto"
	"github.com/wxnacy/jmcomic-cli/internal/handler"
	"github.com/wxnacy/jmcomic-cli/internal/logger"
)

var (
	globalReq = dto.NewGlobalReq()
	startTime time.Time
)

func GetGlobalReq() *dto.GlobalReq {
	return globalReq
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func GetTaskHandler() *handler.TaskHandler {
	return handler.NewTaskHandler()
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "jmcomic",
	Short:   "漫画下载与导出任务看板",
	Long:    `跟踪下载 worker 的事件流，展示章节下载、CBZ 导出与 PDF 导出的进度`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		startTime = time.Now()
		handler.GetRequest().GlobalReq = *globalReq
		// 初始化应用
		if err := initial.InitApp(); err != nil {
			return err
		}
		if globalReq.IsVerbose {
			logger.SetLogLevel(logrus.DebugLevel)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Debugf("命令执行耗时: %v", time.Since(startTime))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCmd.RunE(cmd, args)
	},
}

func handleCmdErr(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		logger.Printf("GoodBye")
		os.Exit(0)
	}
	logger.Printf("Error: %v", err)
	logger.Errorf("Error: %v", err)
	os.Exit(1)
}

// signalContext 在 Ctrl+C 或 SIGTERM 时取消
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	handleCmdErr(rootCmd.Execute())
}

func init() {
	// 全局参数
	defaultConfig, _ := config.GetDefaultConfigPath()
	rootCmd.PersistentFlags().BoolVarP(&globalReq.IsVerbose, "verbose", "V", false, "打印赘余信息")
	rootCmd.PersistentFlags().StringVarP(&globalReq.Config, "config", "c", defaultConfig, "指定配置文件地址")
}
