package main

import (
	"log/slog"
	"os"

	"github.com/metinatakli/cinema-booking/internal/app"
)

func main() {
	err := app.Run(os.Args[1:])
	if err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
