package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wxnacy/jmcomic-cli/internal/config"
)

// configCmd prints current config as YAML
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "以 YAML 格式打印当前配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(config.Get())
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", config.GetConfigPath())
		fmt.Print(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
