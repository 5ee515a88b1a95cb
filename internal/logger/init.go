package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"github.com/wxnacy/go-tools"
	"github.com/wxnacy/jmcomic-cli/internal/config"
)

func Init() error {
	cfg := config.Get().Logger
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	SetLogLevel(level)
	SetFormat(cfg.Format)
	if cfg.IsSave {
		SetLogFile()
	} else {
		// stdout 留给事件流和看板
		GetLogger().SetOutput(os.Stderr)
	}
	return nil
}

func SetLogLevel(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// SetFormat console 输出文本，json 输出结构化日志
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "json":
		GetLogger().SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		GetLogger().SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}

func SetLogFile() {
	logPath := config.GetLogFile()
	tools.DirExistsOrCreate(filepath.Dir(logPath))
	// 设置按日期分割日志，最多十个文件
	logf, err := rotatelogs.New(
		logPath+".%Y%m%d",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithRotationCount(10),
	)
	if err != nil {
		GetLogger().Errorf("failed to create rotatelogs: %s", err)
		return
	}
	GetLogger().SetOutput(logf)
}

func ClearLogFile() {
	GetLogger().SetOutput(os.Stderr)
}

// Mute 看板占用终端时丢弃未写入文件的日志
func Mute() {
	if !config.Get().Logger.IsSave {
		GetLogger().SetOutput(io.Discard)
	}
}
