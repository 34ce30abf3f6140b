package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/co2atlas/internal/adapters/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewCLI(cli.Options{Output: os.Stdout}).Execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
