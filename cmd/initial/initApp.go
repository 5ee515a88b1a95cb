package initial

import (
	"fmt"
	"time"

	"github.com/wxnacy/jmcomic-cli/internal/config"
	"github.com/wxnacy/jmcomic-cli/internal/handler"
	"github.com/wxnacy/jmcomic-cli/internal/logger"
)

// InitApp initial app configuration
func InitApp() error {
	begin := time.Now()
	if err := initConfig(); err != nil {
		return err
	}

	// initial logger
	if err := logger.Init(); err != nil {
		return err
	}
	logger.Debugf("Init Config %#v time used %v", config.Get(), time.Since(begin))
	return nil
}

func initConfig() error {
	configPath, err := handler.GetRequest().GetConfigPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}
	config.SetConfigPath(configPath)

	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	return nil
}
