package cmd

var Version = "0.1.0"
