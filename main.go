// Package main is the entrypoint for the trendbox CLI.
package main

import (
	"github.com/huangsam/trendbox/cmd"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
)

func main() {
	defer runstore.CloseHistory()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		runstore.CloseHistory()
		contract.LogFatal("Command failed", err)
	}
}
