package main

import (
	"os"

	"github.com/benchanjamin/cf-ai-group-scheduler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
