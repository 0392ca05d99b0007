package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/termreel/cli"
)

func main() {
	// An interrupt stops the recording; what was captured is still saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
