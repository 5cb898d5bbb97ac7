package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Default().Error("washline", slog.Any("error", err))
		os.Exit(1)
	}
}
