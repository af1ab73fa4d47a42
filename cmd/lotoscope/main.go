package main

import (
	"os"

	"github.com/wonny/lotoscope/cmd/lotoscope/commands"
)

// main is the entry point for the lotoscope CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/lotoscope [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
