package main

import (
	"log/slog"
	"os"

	"github.com/dasdy/calcskin/cmd/calcskin"
	"github.com/dasdy/calcskin/logging"
)

func main() {
	// The context handler must wrap a fresh handler: wrapping slog.Default().Handler()
	// deadlocks once the result is installed with SetDefault.
	slog.SetDefault(logging.NewLogger(os.Stderr, slog.LevelInfo))

	calcskin.Execute()
}
