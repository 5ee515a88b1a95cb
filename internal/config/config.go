package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var (
	config     *Config
	initOnce   sync.Once
	configPath string
	configYml  = []byte(`
app:
    name: jmcomic-cli
dataDir: ~/.config/jmcomic-cli
logger:
    format: console
    isSave: false
    level: info
    logFileConfig:
        filename: ~/.config/jmcomic-cli/jmcomic-cli.log
feed:
    eventFile: ~/.config/jmcomic-cli/events.ndjson
    follow: true
    fromStart: true
    poll: false
tracker:
    exportErrorMessage: export failed
display:
    barWidth: 40
    hideFinished: false
simulate:
    comicTitle: 演示漫画
    chapters: 3
    images: 20
    rate: 40
    imageErrorEvery: 0
    failChapter: 0
    exportCbz: true
    exportPdf: true
`)
)

type Config struct {
	App      App      `yaml:"app" mapstructure:"app"`
	DataDir  string   `yaml:"dataDir" mapstructure:"dataDir"`
	Logger   Logger   `yaml:"logger" mapstructure:"logger"`
	Feed     Feed     `yaml:"feed" mapstructure:"feed"`
	Tracker  Tracker  `yaml:"tracker" mapstructure:"tracker"`
	Display  Display  `yaml:"display" mapstructure:"display"`
	Simulate Simulate `yaml:"simulate" mapstructure:"simulate"`
}

type App struct {
	Name string `yaml:"name" mapstructure:"name"`
}

type Logger struct {
	Format        string        `yaml:"format" mapstructure:"format"`
	IsSave        bool          `yaml:"isSave" mapstructure:"isSave"`
	Level         string        `yaml:"level" mapstructure:"level"`
	LogFileConfig LogFileConfig `yaml:"logFileConfig" mapstructure:"logFileConfig"`
}

type LogFileConfig struct {
	Filename string `yaml:"filename" mapstructure:"filename"`
}

// Feed 事件日志文件，worker 以 NDJSON 格式逐行追加
type Feed struct {
	EventFile string `yaml:"eventFile" mapstructure:"eventFile"`
	Follow    bool   `yaml:"follow" mapstructure:"follow"`
	FromStart bool   `yaml:"fromStart" mapstructure:"fromStart"`
	// Poll 使用轮询代替 inotify，网络磁盘上需要打开
	Poll bool `yaml:"poll" mapstructure:"poll"`
}

type Tracker struct {
	ExportErrorMessage string `yaml:"exportErrorMessage" mapstructure:"exportErrorMessage"`
}

type Display struct {
	BarWidth     int  `yaml:"barWidth" mapstructure:"barWidth"`
	HideFinished bool `yaml:"hideFinished" mapstructure:"hideFinished"`
}

// Simulate 模拟 worker 的参数
type Simulate struct {
	ComicTitle      string  `yaml:"comicTitle" mapstructure:"comicTitle"`
	Chapters        int     `yaml:"chapters" mapstructure:"chapters"`
	Images          int     `yaml:"images" mapstructure:"images"`
	Rate            float64 `yaml:"rate" mapstructure:"rate"`
	ImageErrorEvery int     `yaml:"imageErrorEvery" mapstructure:"imageErrorEvery"`
	FailChapter     int     `yaml:"failChapter" mapstructure:"failChapter"`
	ExportCbz       bool    `yaml:"exportCbz" mapstructure:"exportCbz"`
	ExportPdf       bool    `yaml:"exportPdf" mapstructure:"exportPdf"`
}

// Init 加载内置默认配置，configFile 存在时覆盖默认值。只执行一次
func Init(configFile string) error {
	var err error
	initOnce.Do(func() {
		var c *Config
		c, err = load(configFile)
		if err == nil {
			config = c
		}
	})
	return err
}

// Get 获取配置，未初始化时使用默认配置
func Get() *Config {
	if config == nil {
		if err := Init(""); err != nil || config == nil {
			c, _ := load("")
			config = c
		}
	}
	return config
}

func load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBuffer(configYml)); err != nil {
		return nil, err
	}

	if configFile != "" {
		ext := strings.TrimLeft(filepath.Ext(configFile), ".")
		if ext != "yaml" && ext != "yml" {
			return nil, fmt.Errorf("unsupported config type %q: %s", ext, configFile)
		}
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.MergeInConfig(); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := FormatConfig(c); err != nil {
		return nil, err
	}
	return c, nil
}

func FormatConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config not found")
	}
	var err error
	for _, p := range []*string{
		&config.DataDir,
		&config.Logger.LogFileConfig.Filename,
		&config.Feed.EventFile,
	} {
		*p, err = homedir.Expand(*p)
		if err != nil {
			return err
		}
	}
	if config.Display.BarWidth <= 0 {
		config.Display.BarWidth = 40
	}
	return nil
}

func GetLogFile() string {
	return Get().Logger.LogFileConfig.Filename
}

func GetEventFile() string {
	return Get().Feed.EventFile
}

func SetConfigPath(path string) {
	configPath = path
}

func GetConfigPath() string {
	return configPath
}

func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jmcomic-cli", "config.yml"), nil
}
