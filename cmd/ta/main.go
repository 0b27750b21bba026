package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-approvals/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCommand(os.Stdout)
	err := root.Execute(ctx)
	stop()

	if err != nil {
		message, code := cli.Report(err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		os.Exit(code)
	}
}
