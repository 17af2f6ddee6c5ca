// Command curryinfo inspects acquisition recordings from the command
// line: summary metadata, annotated events and calibrated sample export.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
