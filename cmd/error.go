package cmd

import "errors"

var ErrQuit = errors.New("quit jmcomic")
