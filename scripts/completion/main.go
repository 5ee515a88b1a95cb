package main

import (
	"log"

	"github.com/wxnacy/jmcomic-cli/cmd"
)

// 生成 zsh 补全脚本: go run ./scripts/completion
func main() {
	rootCmd := cmd.GetRootCmd()
	rootCmd.Use = "jmcomic"

	if err := rootCmd.GenZshCompletionFile("scripts/completion/jmcomic.zsh"); err != nil {
		log.Fatal(err)
	}
}
