package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/vitrine/internal/ctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ctl.Execute(ctx); err != nil {
		os.Stderr.WriteString("vitrinectl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
