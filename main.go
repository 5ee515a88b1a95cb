package main

import "github.com/wxnacy/jmcomic-cli/cmd"

func main() {
	cmd.Execute()
}
